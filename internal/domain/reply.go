package domain

// Button is an inline keyboard button: either an action or a URL.
type Button struct {
	Text   string
	Action *Action
	URL    string
}

// Reply is an outbound message produced by the conversation engine.
type Reply struct {
	Text    string
	Buttons [][]Button
}

func ActionButton(text string, a Action) Button {
	return Button{Text: text, Action: &a}
}

func URLButton(text, url string) Button {
	return Button{Text: text, URL: url}
}

// TextReply is a reply without a keyboard.
func TextReply(text string) Reply {
	return Reply{Text: text}
}
