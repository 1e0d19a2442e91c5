package profile

import (
	"fmt"
	"strings"
	"time"
)

// Behavior states an offline avatar can be in. The states feed the digital
// twin prompt; executing them is the 3D layer's job.
const (
	BehaviorIdle    = "idle"
	BehaviorWander  = "wander"
	BehaviorPatrol  = "patrol"
	BehaviorTalking = "talking"
)

// DefaultBio substitutes for a missing bio wherever profile text is rendered.
const DefaultBio = "Just exploring the metaverse!"

// Profile is a persistent user identity whose digital twin stays in the world
// while the owner is offline.
type Profile struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Username          string    `json:"username"`
	SelectedAvatar    string    `json:"selectedAvatarModel"`
	PersonalityPrompt string    `json:"aiPersonalityPrompt,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	Interests         []string  `json:"interests,omitempty"`
	PreferredGreeting string    `json:"preferredGreeting,omitempty"`
	FavoriteLobby     string    `json:"favoriteLobby,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	LastSeen          time.Time `json:"lastSeen"`
}

// Vec3 is a world-space coordinate triple.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// AvatarState tracks where a profile's avatar is and what it is doing.
type AvatarState struct {
	ProfileID    string    `json:"profileId"`
	LobbyID      string    `json:"lobbyId"`
	Position     Vec3      `json:"position"`
	Rotation     Vec3      `json:"rotation"`
	Animation    string    `json:"animation"`
	IsOnline     bool      `json:"isOnline"`
	Behavior     string    `json:"aiBehavior"`
	LastActivity time.Time `json:"lastActivity"`
}

// SynthesizePersonalityPrompt derives the twin prompt stored at profile
// creation. Matches the profile wizard's template so twins sound like their
// owners set them up.
func SynthesizePersonalityPrompt(username, personality, bio string, interests []string, greeting string) string {
	if personality == "" {
		personality = "Friendly and curious"
	}
	if bio == "" {
		bio = DefaultBio
	}
	interestLine := strings.Join(interests, ", ")
	if interestLine == "" {
		interestLine = "meeting people"
	}
	if greeting == "" {
		greeting = fmt.Sprintf("Hey! I'm %s!", username)
	}
	return fmt.Sprintf(`You are %s, a metaverse resident.
Personality: %s.
Bio: %s
Interests: %s.
When greeting others, you say: "%s"
Keep responses friendly and brief, staying true to this personality.`,
		username, personality, bio, interestLine, greeting)
}
