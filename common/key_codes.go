package common

// KeyAction identifies the kind of key event delivered by the window.
// Values match glfw.Action.
type KeyAction int

const (
	// KeyRelease is sent once when a key is released.
	KeyRelease KeyAction = iota
	// KeyPress is sent once when a key goes down.
	KeyPress
	// KeyRepeat is sent repeatedly while a key is held down.
	KeyRepeat
)

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyA = 65 // A key (ASCII)
	KeyB = 66 // B key (ASCII)
	KeyC = 67 // C key (ASCII)
	KeyE = 69 // E key (ASCII)
	KeyF = 70 // F key (ASCII)
	KeyG = 71 // G key (ASCII)
	KeyH = 72 // H key (ASCII)
	KeyJ = 74 // J key (ASCII)
	KeyK = 75 // K key (ASCII)
	KeyL = 76 // L key (ASCII)
	KeyM = 77 // M key (ASCII)
	KeyN = 78 // N key (ASCII)
	KeyO = 79 // O key (ASCII)
	KeyP = 80 // P key (ASCII)
	KeyQ = 81 // Q key (ASCII)
	KeyR = 82 // R key (ASCII)
	KeyS = 83 // S key (ASCII)
	KeyT = 84 // T key (ASCII)
	KeyV = 86 // V key (ASCII)
	KeyW = 87 // W key (ASCII)
	KeyX = 88 // X key (ASCII)
	KeyY = 89 // Y key (ASCII)
	KeyZ = 90 // Z key (ASCII)

	KeyEsc = 256 // Escape key (GLFW)

	Key0 = 48 // 0 key (ASCII)
	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
	Key4 = 52 // 4 key (ASCII)
	Key5 = 53 // 5 key (ASCII)
	Key6 = 54 // 6 key (ASCII)
	Key7 = 55 // 7 key (ASCII)
	Key8 = 56 // 8 key (ASCII)
	Key9 = 57 // 9 key (ASCII)
)
