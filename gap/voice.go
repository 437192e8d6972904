package gap

import "fmt"

// VoiceRole identifies one of the three fixed voices of a Gap.
type VoiceRole int

const (
	// RoleLow is the sustained low-register drone.
	RoleLow VoiceRole = iota
	// RoleModulated is the sustained tone with amplitude tremolo.
	RoleModulated
	// RoleStepped is the filtered 32-step pseudo-melody.
	RoleStepped
)

func (r VoiceRole) String() string {
	switch r {
	case RoleLow:
		return "low"
	case RoleModulated:
		return "modulated"
	case RoleStepped:
		return "stepped"
	}
	return fmt.Sprintf("VoiceRole(%d)", int(r))
}

// Timbre tags name the oscillator shape a renderer realizes for a voice.
const (
	TimbreSine     = "sine"
	TimbreTriangle = "triangle"
	TimbreSquare   = "square"
)

// VoiceDescriptor is the declarative form of one voice: role, display label
// and timbre tag. It owns no audio resources.
type VoiceDescriptor struct {
	Role   VoiceRole
	Label  string
	Timbre string
}

// ComposeVoices maps a Gap to its three voices: fixed roles in fixed order,
// no randomness. The low voice is labeled by the origin, the modulated
// voice by the target, the stepped voice by the shared-link count.
func ComposeVoices(g *Gap) [3]VoiceDescriptor {
	return [3]VoiceDescriptor{
		{Role: RoleLow, Label: g.Origin.Title, Timbre: TimbreSine},
		{Role: RoleModulated, Label: g.Target.Title, Timbre: TimbreTriangle},
		{Role: RoleStepped, Label: sharedLinkLabel(len(g.SharedLinks)), Timbre: TimbreSquare},
	}
}

func sharedLinkLabel(n int) string {
	if n == 1 {
		return "1 shared link"
	}
	return fmt.Sprintf("%d shared links", n)
}
