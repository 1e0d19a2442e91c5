// Package prompt derives system prompts from chat target descriptors. All
// functions here are pure: persona text is fully re-derived from the
// descriptor on every call, never mutated incrementally.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/plottwist/yngo/backend/internal/model/chat"
	"github.com/plottwist/yngo/backend/internal/model/profile"
)

//go:embed context/inventory.txt
var inventoryData string

// BuildSystemPrompt returns the system prompt for the given target. A zero
// target falls back to the generic merchant persona so a session is always
// seedable.
func BuildSystemPrompt(target chat.Target) string {
	switch target.Kind {
	case chat.TargetNPC:
		if target.NPC != nil {
			return buildHostPrompt(target.NPC)
		}
	case chat.TargetDigitalTwin:
		if target.Twin != nil {
			return buildTwinPrompt(target.Twin)
		}
	}
	return defaultPersona()
}

// buildHostPrompt assembles the lobby host persona: base personality, the
// lobby's contextual block, optional schedule/contact/stories, and the
// trailing action grammar.
func buildHostPrompt(npc *chat.NPCTarget) string {
	var b strings.Builder
	b.WriteString(npc.Persona)

	if ctx, ok := lobbyContexts[npc.LobbyID]; ok {
		b.WriteString("\n\n")
		b.WriteString(ctx)
	}

	if npc.LobbyID == "english-professor" {
		b.WriteString("\n\nYour Literary Collection:\n")
		b.WriteString(inventoryData)
	}

	if npc.EventSchedule != "" {
		b.WriteString("\n\nEvent Schedule:\n")
		b.WriteString(npc.EventSchedule)
	}
	if npc.Contact != "" {
		b.WriteString("\n\nContact Information:\n")
		b.WriteString(npc.Contact)
	}
	if len(npc.Stories) > 0 {
		b.WriteString("\n\nYour Background Stories:\n")
		for _, story := range npc.Stories {
			b.WriteString("- ")
			b.WriteString(story)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(actionGrammar)
	return b.String()
}

// buildTwinPrompt synthesizes a first-person prompt for an offline user's
// digital twin: the stored personality prompt (or a generated default) plus
// situational context.
func buildTwinPrompt(twin *chat.TwinTarget) string {
	var b strings.Builder

	if twin.PersonalityPrompt != "" {
		b.WriteString(twin.PersonalityPrompt)
	} else {
		b.WriteString(profile.SynthesizePersonalityPrompt(twin.Username, "", twin.Bio, twin.Interests, ""))
	}

	b.WriteString("\n\nSituation:")
	if twin.LobbyID != "" {
		fmt.Fprintf(&b, "\n- You are currently in the %q lobby.", twin.LobbyID)
	}
	behavior := twin.Behavior
	if behavior == "" {
		behavior = profile.BehaviorIdle
	}
	fmt.Fprintf(&b, "\n- Your avatar is in %q mode while your owner is away.", behavior)
	fmt.Fprintf(&b, "\n- You are the digital twin of %s, who is currently offline. If asked, be upfront that the real %s is away and you are standing in.", twin.Username, twin.Username)
	b.WriteString("\n- Keep responses friendly and brief (2-3 sentences max).")

	return b.String()
}

// lobbyContexts holds the hard-coded contextual paragraph per known lobby.
// Unknown lobby ids simply get no extra block.
var lobbyContexts = map[string]string{
	"hack-nation": `Context: You're hosting the Hack-Nation: Global AI Online-Hackathon event (August 9-10, 2025).
- 2000+ AI builders from 60+ countries are participating
- $5k+ in API & Cash prizes sponsored by OpenAI
- Four competition tracks: Agentic AI & Data Engineering, Model Fine-Tuning, Rapid Prototyping, Small Model Deployment
- Featured speakers include Rama (MIT), Julian (OpenAI), Gregory (Google), and Hubertus (MyMuesli co-founder)
- Previous winners: SynthShape (AI 3D modeling), ThermoTrace (thermal drone analysis), AI Scam Shield

You can help participants:
- Navigate the competition tracks
- Connect with mentors and speakers
- Learn about career opportunities
- Understand the hackathon schedule and prizes`,

	"english-professor": `Context: You're in your virtual study, surrounded by digital artifacts from classic literature.
- Your collection includes legendary weapons from epic poems and famous novels
- You have rare manuscripts and historical writing instruments
- You conduct virtual literature circles and poetry workshops
- You believe in preserving literary heritage through digital means

You can help visitors:
- Explore literary artifacts and their histories
- Try on legendary weapons from classic tales (like Excalibur, Sting from The Hobbit)
- Join literature discussions and workshops
- Learn about the stories behind famous literary items`,
}

// actionGrammar instructs the model how to emit machine-parseable action tags.
// The 3D layer extracts and strips the tags; this core passes text through
// unmodified.
const actionGrammar = `Actions Available:
- You can allow visitors to try on weapons/items by writing tags like <<try_weapon("player", "[assetName]", "[chain]", "[contractAddress]", "[tokenId]")>> at the end of your message
- Multiple tags are allowed for multiple items; one tag covers exactly one item
- Put tags at the end of your message, the system will handle them
- Don't mention the tags to visitors, they're for the system only
- What you write should make sense even when the tags are removed`

// defaultPersona is the hard-coded fallback used when no target descriptor is
// available.
func defaultPersona() string {
	return `You are Agent Zoan, a friendly merchant NPC in a virtual world. You sell unique weapons and items. You are standing in one place in the virtual world.
- Keep responses concise (2-3 sentences max). If the player asks to view all items in a category you may list them all.
- Stay in character as a fantasy merchant, but don't use roleplay text and asterisks like *Zoan says*
- Zoan likes making assets like weapons for people to enjoy, and has a jokester's sense of humor
- Zoan is a young man (in his 20s)
- You can let the player try items on, but you can't sell or transfer them here; point ready buyers to the marketplace without dwelling on it.

` + actionGrammar + `

Behind Zoan is his inventory of weapons arranged in a row (the player may walk up to them and click them to view details and try them on):

` + inventoryData
}
