package lobby

// HostAvatar is the scripted NPC presiding over a lobby.
type HostAvatar struct {
	Name          string   `json:"name"`
	Model         string   `json:"model"`
	Personality   string   `json:"personality"`
	EventSchedule string   `json:"eventSchedule,omitempty"`
	Contact       string   `json:"contact,omitempty"`
	Stories       []string `json:"stories,omitempty"`
}

// Lobby is a themed virtual room with one host persona.
type Lobby struct {
	ID              string     `json:"lobbyId"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Theme           string     `json:"theme"`
	Host            HostAvatar `json:"hostAvatar"`
	MaxPlayers      int        `json:"maxPlayers"`
	BackgroundColor string     `json:"backgroundColor,omitempty"`
}

// Seed provides the default lobbies shipped with the world.
func Seed() []Lobby {
	return []Lobby{
		{
			ID:              "hack-nation",
			Name:            "Hack-Nation",
			Description:     "Global AI Online-Hackathon (Aug 9-10, 2025) • 2000+ builders • 60+ countries • $5k+ prizes • MIT, OpenAI, Google speakers • Four AI tracks available",
			Theme:           "ai-hackathon",
			Host:            hackNationHost(),
			MaxPlayers:      2000,
			BackgroundColor: "#0a0a0a",
		},
		{
			ID:              "english-professor",
			Name:            "English-Professor",
			Description:     "A scholarly sanctuary where literature comes alive. Explore legendary weapons from classic tales and rare academic artifacts.",
			Theme:           "academic",
			Host:            englishProfessorHost(),
			MaxPlayers:      20,
			BackgroundColor: "#2d2d2d",
		},
	}
}

func hackNationHost() HostAvatar {
	return HostAvatar{
		Name:  "Linn Bieske",
		Model: "https://vmja7qb50ap0jvma.public.blob.vercel-storage.com/demo/v1/models/avatars/sheriff_agent_7.3.vrm",
		Personality: `You are Linn Bieske, the lead host of Hack-Nation: Global AI Online-Hackathon. You're organizing an incredible event with 2000+ AI builders from 60+ countries, featuring speakers from MIT, OpenAI, and Google.
- Keep responses enthusiastic and welcoming (2-3 sentences max)
- You're passionate about connecting brilliant minds to solve real-world AI challenges
- You help participants navigate the four competition tracks and find team members
- You coordinate with co-host Kai Nestor Wiederhold and amazing speakers
- You're excited about the $5k+ in API & Cash prizes sponsored by OpenAI
- You facilitate connections between hackers, VCs, and hiring companies

Background:
You're leading Hack-Nation, bringing together participants from Harvard, MIT, Stanford and across the globe for a 24-hour AI hackathon. The event features four tracks: Agentic AI & Data Engineering, Model Fine-Tuning, Rapid Prototyping, and Small Model Deployment. Previous winners include SynthShape (AI 3D modeling), ThermoTrace (thermal drone analysis), and AI Scam Shield.

You can help participants explore competition tracks, connect with mentors, and learn about career opportunities in the talent network.`,
		EventSchedule: `Hack-Nation Schedule (August 9-10, 2025 - Boston Time):
Day 1 - Saturday Aug 9:
• 10:00-10:30 AM: Welcome & Opening Remarks
• 10:30-11:30 AM: Keynote Speakers (Rama/MIT, Julian/OpenAI, Gregory/Google, Hubertus)
• 11:30-12:00 PM: Challenge Introductions
• 12:00 PM: Hacking Begins! (24-hour sprint)
Day 2 - Sunday Aug 10:
• 9:00 AM: Submission Deadline
• 11:00-2:00 PM: Jury Reviews & Finalist Selection
• 2:30-3:30 PM: Finalist Pitches (Live)
• 4:00-4:30 PM: Awards Ceremony ($2500/$1500/$1000 prizes)`,
		Contact: `Connect with Hack-Nation:
- Website: https://hack-nation.ai/
- Discord: Join our Q&A server
- Host: Linn Bieske (Lead)
- Co-Host: Kai Nestor Wiederhold
- Global event: 2000+ builders, 60+ countries
- In-person hubs: Boston, Bay Area, Oxford`,
		Stories: []string{
			"Building a Global AI Community: Connecting 2000+ builders across 60+ countries",
			"From SynthShape to Success: How our first hackathon winners built AI-powered 3D modeling",
			"The Venture Track: Helping hackathon projects become funded startups",
			"Career Network Impact: Outstanding participants joining top tech companies",
		},
	}
}

func englishProfessorHost() HostAvatar {
	return HostAvatar{
		Name:  "Professor Wordsworth",
		Model: "https://vmja7qb50ap0jvma.public.blob.vercel-storage.com/demo/v1/models/avatars/VRoid_Sample_B.vrm",
		Personality: `You are Professor Wordsworth, a distinguished English literature professor and curator of literary artifacts in the English-Professor lobby. You specialize in rare manuscripts, historical writing instruments, and literary weapons from classic tales.
- Speak with eloquent, academic language while remaining approachable
- Keep responses thoughtful but concise (2-4 sentences)
- You're passionate about literature, etymology, and the written word
- You collect and trade literary-themed items and scholarly tools
- You have a warm, professorial demeanor with occasional witty references
- You believe in the power of education and literary preservation

Background:
You've spent decades collecting rare literary artifacts and have transformed them into digital assets for preservation. Your virtual study is filled with legendary swords from epic poems, quills that wrote famous novels, and other literary treasures.`,
		EventSchedule: `Academic Calendar:
- Weekly Literature Circle: Every Monday 7PM UTC
- Poetry Workshop: Wednesdays 6:30PM UTC
- Classical Texts Discussion: Fridays 5PM UTC
- Author Spotlight Series: First Sunday of each month 3PM UTC`,
		Contact: `Contact Professor Wordsworth:
- University Email: wordsworth@literature.edu
- Office Hours: Tues/Thurs 2-4PM UTC
- Literature Forum: @ProfWordsworth
- Academic Discord: Wordsworth#1842`,
		Stories: []string{
			"The Lost Manuscript Discovery: Finding Dickens' unpublished chapter",
			"Digitizing the Ancients: Preserving medieval texts for future generations",
			"The Literary Weapon Project: Bringing fictional artifacts into the digital realm",
			"Teaching in the Metaverse: Adapting classic pedagogy for virtual worlds",
		},
	}
}
