package chat

import "errors"

// TargetKind discriminates the two chat target variants.
type TargetKind string

const (
	// TargetNPC is a scripted lobby host, not tied to any real user.
	TargetNPC TargetKind = "npc"
	// TargetDigitalTwin is an AI stand-in for an offline user's profile.
	TargetDigitalTwin TargetKind = "digital_twin"
)

var ErrInvalidTarget = errors.New("chat target must carry exactly one variant")

// NPCTarget describes a lobby host persona.
type NPCTarget struct {
	LobbyID       string   `json:"lobbyId"`
	HostName      string   `json:"hostName"`
	Persona       string   `json:"persona"`
	EventSchedule string   `json:"eventSchedule,omitempty"`
	Contact       string   `json:"contact,omitempty"`
	Stories       []string `json:"stories,omitempty"`
}

// TwinTarget describes an offline profile standing in for its owner.
type TwinTarget struct {
	ProfileID         string   `json:"profileId"`
	Username          string   `json:"username"`
	PersonalityPrompt string   `json:"personalityPrompt,omitempty"`
	Bio               string   `json:"bio,omitempty"`
	Interests         []string `json:"interests,omitempty"`
	LobbyID           string   `json:"lobbyId,omitempty"`
	Behavior          string   `json:"behavior,omitempty"`
}

// Target is a tagged union over the two chat target categories. Exactly one
// variant pointer is non-nil; Validate enforces this before a target enters a
// conversation session.
type Target struct {
	Kind TargetKind  `json:"kind"`
	NPC  *NPCTarget  `json:"npc,omitempty"`
	Twin *TwinTarget `json:"twin,omitempty"`
}

// Validate checks the tag matches the populated variant.
func (t Target) Validate() error {
	switch t.Kind {
	case TargetNPC:
		if t.NPC == nil || t.Twin != nil {
			return ErrInvalidTarget
		}
	case TargetDigitalTwin:
		if t.Twin == nil || t.NPC != nil {
			return ErrInvalidTarget
		}
	default:
		return ErrInvalidTarget
	}
	return nil
}

// Ref returns the identifying tag carried on a Result.
func (t Target) Ref() TargetRef {
	ref := TargetRef{Kind: t.Kind}
	switch t.Kind {
	case TargetNPC:
		if t.NPC != nil {
			ref.LobbyID = t.NPC.LobbyID
		}
	case TargetDigitalTwin:
		if t.Twin != nil {
			ref.ProfileID = t.Twin.ProfileID
			ref.LobbyID = t.Twin.LobbyID
		}
	}
	return ref
}

// TargetRef identifies which target produced a Result without dragging the
// full descriptor along.
type TargetRef struct {
	Kind      TargetKind `json:"kind"`
	LobbyID   string     `json:"lobbyId,omitempty"`
	ProfileID string     `json:"profileId,omitempty"`
}
