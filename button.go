package cursive

import "github.com/mattn/go-runewidth"

// Button is a focusable one-line view that runs a deferred callback when
// activated with Enter, Space or a mouse press.
type Button struct {
	BaseView
	label   string
	onPress Callback
}

// NewButton creates a button with the given label and activation callback.
func NewButton(label string, onPress Callback) *Button {
	return &Button{label: label, onPress: onPress}
}

// Label returns the button's label.
func (b *Button) Label() string {
	return b.label
}

// SetLabel replaces the button's label.
func (b *Button) SetLabel(label string) {
	b.label = label
}

// RequiredSize returns the label width plus the angle-bracket decoration.
func (b *Button) RequiredSize(constraint Size) Size {
	return Size{runewidth.StringWidth(b.label) + 2, 1}.Min(constraint)
}

// Draw renders the button, inverted while focused.
func (b *Button) Draw(p *Painter) {
	if p.Focused() {
		*p = p.WithStyle(Style{Attr: AttrInverse})
	}
	p.Print(0, 0, "<"+b.label+">")
}

// OnEvent activates the button on Enter, Space or a left mouse press.
func (b *Button) OnEvent(ev Event) EventResult {
	switch e := ev.(type) {
	case KeyEvent:
		if e.Key == KeyEnter || (e.Key == KeyRune && e.Rune == ' ' && e.Mod == 0) {
			return b.press()
		}
	case MouseEvent:
		if e.Button == MouseLeft && e.Action == MousePress {
			return b.press()
		}
	}
	return Ignore()
}

func (b *Button) press() EventResult {
	if b.onPress == nil {
		return Consume()
	}
	return ConsumeWith(b.onPress)
}

// TakeFocus accepts focus from any direction.
func (b *Button) TakeFocus(dir FocusDirection) bool {
	return true
}
