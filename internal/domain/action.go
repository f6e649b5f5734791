package domain

// ActionKind classifies an outbound message.
type ActionKind string

const (
	ActionText     ActionKind = "text"
	ActionButtons  ActionKind = "buttons"
	ActionList     ActionKind = "list"
	ActionDocument ActionKind = "document"
)

// Button is one interactive reply button.
type Button struct {
	ID    string
	Title string
}

// ListRow is one selectable row in an interactive list.
type ListRow struct {
	ID          string
	Title       string
	Description string
}

// ListSection groups rows under a header.
type ListSection struct {
	Title string
	Rows  []ListRow
}

// OutboundAction describes a message to send, decoupled from the
// transport call that sends it. Delivery failure never feeds back into
// the state transition that produced the action.
type OutboundAction struct {
	Kind     ActionKind
	To       string
	Body     string
	Buttons  []Button
	Sections []ListSection
	DocURL   string
	Filename string
	Caption  string
}

// Text builds a plain text action.
func Text(to, body string) OutboundAction {
	return OutboundAction{Kind: ActionText, To: to, Body: body}
}

// ButtonsMsg builds an interactive reply-button action.
func ButtonsMsg(to, body string, buttons ...Button) OutboundAction {
	return OutboundAction{Kind: ActionButtons, To: to, Body: body, Buttons: buttons}
}

// ListMsg builds an interactive list action.
func ListMsg(to, body string, sections ...ListSection) OutboundAction {
	return OutboundAction{Kind: ActionList, To: to, Body: body, Sections: sections}
}

// DocumentMsg builds a document attachment action.
func DocumentMsg(to, url, filename, caption string) OutboundAction {
	return OutboundAction{Kind: ActionDocument, To: to, DocURL: url, Filename: filename, Caption: caption}
}
