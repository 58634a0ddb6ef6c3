package phrasing

import (
	"fmt"
	"strings"

	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/phrasing/engine"
)

const systemPrompt = "You are a high-level Nepali Kinship Expert. Determine the exact relationship term for Person B relative to Person A based on the following rules:"

var mappingRules = []string{
	"Primary: Aama/Buwa <-> Chora/Chori, Dai/Bhai <-> Didi/Bahini.",
	"Maternal: Mama/Maiju <-> Bhanja/Bhanji (Sister's kids). Sani-aama/Thuli-aama (Mother's sister) <-> her sister's kids.",
	"Paternal: Kaka/Thulobuwa <-> Bhatijo/Bhatiji (Brother's kids). Phupu/Phupaju <-> Bhada/Bhadai (Brother's kids see Father's sister as Phupu).",
	"In-Laws: Sasura <-> Jwain (Son-in-law). Sasu <-> Buhari (Daughter-in-law). Jethan/Salo/Sali <-> Bhena/Jwain.",
	"Generations: Hajurama/Baje <-> Nati/Natini. Jyu-jyu Baje <-> Pan-nati. Khapati <-> Khapati-nati.",
}

const instruction = `Return ONLY the specific Nepali term and its common English transliteration. Format: "Term (Transliteration)". Do not explain.`

// BuildPrompt renders the user prompt for one resolved relationship.
func BuildPrompt(req kinship.PhraseRequest) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nREQUIRED MAPPING RULES:\n")
	for i, r := range mappingRules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}

	var source, target kinship.Person
	if n := len(req.People); n > 0 {
		source, target = req.People[0], req.People[n-1]
	}
	path := req.Normalized
	if path == nil {
		path = kinship.Normalize(req.Types)
	}

	b.WriteString("\nCONTEXT:\n")
	fmt.Fprintf(&b, "- Person A (Source): %s (Gender: %s)\n", displayName(source), source.Gender)
	fmt.Fprintf(&b, "- Person B (Target): %s (Gender: %s)\n", displayName(target), target.Gender)
	fmt.Fprintf(&b, "- Step-by-step path: %s\n", pathLabels(path))
	if req.Term.Text != "" {
		fmt.Fprintf(&b, "- Rule-based answer: %s\n", req.Term.Text)
	}

	b.WriteString("\nINSTRUCTION:\n")
	b.WriteString(instruction)
	return b.String()
}

// BuildMessages wraps BuildPrompt for chat engines.
func BuildMessages(req kinship.PhraseRequest) []engine.Message {
	return []engine.Message{{Role: "user", Content: BuildPrompt(req)}}
}

func displayName(p kinship.Person) string {
	if s := strings.TrimSpace(p.Name); s != "" {
		return s
	}
	if p.ID != "" {
		return p.ID
	}
	return "unknown"
}

func pathLabels(path []kinship.RelationType) string {
	parts := make([]string, 0, len(path))
	for _, t := range path {
		l, err := kinship.LabelOf(t)
		if err != nil {
			parts = append(parts, string(t))
			continue
		}
		parts = append(parts, l.Nepali)
	}
	return strings.Join(parts, " -> ")
}

// cleanReply keeps the first non-empty line and drops wrapping quotes.
func cleanReply(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "\"'`")
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
