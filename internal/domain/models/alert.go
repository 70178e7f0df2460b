package models

// Headline is the title of a news article.
type Headline string

// AlertMessage is the human readable text of one fired alert.
type AlertMessage string

// Alert is a fired notify rule for one symbol.
type Alert struct {
	Symbol    string
	Signal    SignalValues
	Headlines []Headline
	Message   AlertMessage
}
