package render

// Widget kinds. They key default classes in config.Config.Classes and theme
// tokens of the form "forms.<kind>.class".
const (
	KindForm      = "form"
	KindText      = "text"
	KindFile      = "file"
	KindHidden    = "hidden"
	KindPassword  = "password"
	KindSubmit    = "submit"
	KindRadio     = "radio"
	KindCheckbox  = "checkbox"
	KindSelect    = "select"
	KindTextarea  = "textarea"
	KindLabel     = "label"
	KindErrorList = "errorlist"
)
