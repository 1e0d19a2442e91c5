package chat

// Animation hints understood by the 3D layer.
const (
	AnimationTalk = "Talk"
	AnimationIdle = "Idle"
)

// Result is the terminal value of one conversation round-trip. The message
// text is passed through unmodified, action tags included; stripping them is
// the 3D layer's job.
type Result struct {
	Message   string    `json:"message"`
	Emotion   string    `json:"emotion"`
	Animation string    `json:"animation"`
	Target    TargetRef `json:"target"`
}
