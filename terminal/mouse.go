package terminal

// MouseButton is the button a mouse report refers to; wheel notches count as buttons
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
	MouseBtnWheelUp
	MouseBtnWheelDown
	MouseBtnBack
	MouseBtnForward
)

var buttonNames = [...]string{"none", "left", "middle", "right", "wheel_up", "wheel_down", "back", "forward"}

func (b MouseButton) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return buttonNames[MouseBtnNone]
}

// MouseAction is what happened to the button
type MouseAction uint8

const (
	MouseActionNone MouseAction = iota
	MouseActionPress
	MouseActionRelease
	MouseActionMove
	MouseActionDrag
)

var actionNames = [...]string{"none", "press", "release", "move", "drag"}

func (a MouseAction) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return actionNames[MouseActionNone]
}

// MouseMode selects which reports the terminal sends; modes combine
type MouseMode uint8

const (
	MouseModeNone   MouseMode = 0
	MouseModeClick  MouseMode = 1 << 0
	MouseModeDrag   MouseMode = 1 << 1
	MouseModeMotion MouseMode = 1 << 2
)
