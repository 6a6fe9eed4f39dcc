// Package prompt composes system prompts and request message lists for
// persona turns. Composition is deterministic: the same persona, topic, and
// history always produce the same request.
package prompt

import (
	"fmt"
	"strings"

	"github.com/rflkt/warriorchat/internal/completion"
	"github.com/rflkt/warriorchat/internal/persona"
)

// safetyDirective is embedded verbatim in every persona system prompt.
const safetyDirective = `IMPORTANT SAFETY GUIDELINES:
- If a user expresses thoughts of self-harm, suicide, or causing harm to others, IMMEDIATELY provide crisis resources and supportive information.
- When detecting concerning content, include the text: "I notice you're expressing thoughts that concern me. Please consider contacting a mental health professional or crisis line: [National Suicide Prevention Lifeline: 988 or 1-800-273-8255]"
- Do not roleplay or stay in character when responding to crisis situations - prioritize user safety above all else
- Avoid providing advice that could be harmful and instead direct users to appropriate professional resources`

// WarriorSystem builds the system prompt for a warrior in a group
// discussion about topic. When a template directory is configured the
// caller should prefer WarriorSystemFromTemplates.
func WarriorSystem(w persona.Warrior, topic string) string {
	return fmt.Sprintf(`You are %s, a %s from %s %s.

Your personality traits: %s
Your specialty: %s
Your notable achievements: %s
Famous quotes from you: %s

Your full biography: %s

You are participating in a group discussion about %q with other historical warriors and possibly a modern user.
- Respond in first person as %s would, reflecting your personality, historical background, and expertise
- Keep your responses concise (1-3 sentences) and engaging
- Occasionally refer to your historical experiences or achievements when relevant
- Stay in character at all times
- Ask questions to the user or other warriors to keep the conversation engaging
- Respond directly to points made by others, creating a natural dialogue flow
- Do NOT include your name in brackets at the beginning of your response
- You may occasionally interact with or respond to other warriors in the conversation

%s`,
		w.Name, w.ShortDesc, w.Era, w.Region,
		w.Personality,
		w.Specialty,
		strings.Join(w.Achievements, ", "),
		strings.Join(w.Quotes, ", "),
		w.FullBio,
		topic,
		w.Name,
		safetyDirective)
}

// SoloWarriorSystem builds the system prompt for a one-on-one side chat.
// The reinforcement suffix keeps models from continuing the conversation on
// behalf of other speakers.
func SoloWarriorSystem(w persona.Warrior) string {
	base := WarriorSystem(w, "personal conversation")
	return base + fmt.Sprintf("\n\nIMPORTANT: You are ONLY speaking as %s. Do NOT generate responses for other warriors or continue the conversation beyond your single response. Respond ONLY from %s's perspective.", w.Name, w.Name)
}

// phraseGuidance holds the per-phrase coaching focus. Keys match the phrase
// catalog IDs.
var phraseGuidance = map[string]string{
	"youvsyou":      "The only meaningful competition is with who you were yesterday. Steer every reflection away from comparison with others and toward measurable personal progress.",
	"lockin":        "Total focus and commitment. Help the user eliminate distractions, narrow their attention to the single next action, and commit fully to it.",
	"positivevoice": "Self-talk shapes performance. Catch and reframe negative self-talk, and help the user build a deliberate, encouraging inner voice.",
	"discipline":    "Motivation fades; discipline endures. Emphasize routine, consistency, and showing up on the days it is hardest.",
	"challenge":     "Growth lives at the edge of comfort. Push the user to pick challenges slightly beyond their current ability and treat discomfort as a signal of progress.",
}

// PhraseSystem builds the system prompt for a motivational-phrase session.
// Unknown keys fall back to a generic template rather than failing.
func PhraseSystem(phraseKey, topic string) string {
	display := phraseKey
	guidance := fmt.Sprintf("Help the user reflect on what %q means for their life and goals.", phraseKey)
	if p, ok := persona.FindPhrase(phraseKey); ok {
		display = p.Phrase
		if g, ok := phraseGuidance[p.ID]; ok {
			guidance = g
		}
	}

	prompt := fmt.Sprintf(`You are a motivational guide embodying the phrase %q.

Your guiding principle: %s

- Respond in first person, in a direct, encouraging voice
- Keep your responses concise (1-3 sentences) and engaging
- Ground abstract motivation in concrete, actionable suggestions
- Stay focused on the phrase and what it asks of the user
- Ask questions that prompt honest self-reflection
- Do NOT include your name or the phrase as a prefix at the beginning of your response

%s`, display, guidance, safetyDirective)

	if topic != "" {
		prompt += fmt.Sprintf("\n\nThe user wants to apply this to: %s", topic)
	}
	return prompt
}

// FormatHistory replays the message log as role-tagged turns. names maps
// speaker IDs to display names; speakers absent from the map are treated as
// system. Persona turns become assistant messages with a "Name: " content
// prefix so the model can tell speakers apart. When the speaker up next also
// produced the latest message, a steering system message nudges it to
// diversify instead of repeating itself. A trailing system reminder restates
// the topic on every request.
func FormatHistory(turns []Turn, names map[string]string, nextSpeaker, topic string) []completion.Message {
	out := make([]completion.Message, 0, len(turns)+2)
	for _, t := range turns {
		switch t.Speaker {
		case "user":
			out = append(out, completion.Message{Role: completion.RoleUser, Content: t.Content})
		case "system":
			out = append(out, completion.Message{Role: completion.RoleSystem, Content: t.Content})
		default:
			name, ok := names[t.Speaker]
			if !ok {
				out = append(out, completion.Message{Role: completion.RoleSystem, Content: t.Content})
				continue
			}
			out = append(out, completion.Message{
				Role:    completion.RoleAssistant,
				Content: name + ": " + t.Content,
			})
		}
	}

	if len(turns) > 0 && turns[len(turns)-1].Speaker == nextSpeaker {
		name := names[nextSpeaker]
		out = append(out, completion.Message{
			Role:    completion.RoleSystem,
			Content: fmt.Sprintf("%s, you spoke last. Do not repeat your previous point — ask a question or build on what was said to move the conversation forward.", name),
		})
	}

	reminder := fmt.Sprintf("Continue the discussion about %q. Engage the user or the other participants directly.", topic)
	if topic == "" {
		reminder = "Continue the reflection. Engage the user directly."
	}
	out = append(out, completion.Message{Role: completion.RoleSystem, Content: reminder})

	return out
}

// Turn is a prompt-layer view of one logged message.
type Turn struct {
	Speaker string
	Content string
}
