// internal/workers/communication/send-assessment-summary/message.go
package sendassessmentsummary

import (
	"fmt"
	"net/mail"
	"strings"

	"readiness-workers/internal/scoring"
)

var maturityLabels = map[string]string{
	string(scoring.MaturityBeginner): "Débutant",
	string(scoring.MaturityEmerging): "Émergent",
	string(scoring.MaturityAdvanced): "Avancé",
	string(scoring.MaturityLeader):   "Leader",
}

func isValidEmail(addr string) bool {
	parsed, err := mail.ParseAddress(strings.TrimSpace(addr))
	return err == nil && strings.Contains(parsed.Address, ".")
}

func buildSubject(input *Input) string {
	return fmt.Sprintf("Votre score de maturité digitale : %d/100", input.ReadinessScore)
}

// buildBody renders the plain text summary. Categories follow questionnaire
// order; unknown keys are listed after them.
func buildBody(input *Input) string {
	var b strings.Builder

	name := strings.TrimSpace(input.CompanyName)
	if name == "" {
		name = "votre entreprise"
	}
	fmt.Fprintf(&b, "Bonjour,\r\n\r\n")
	fmt.Fprintf(&b, "Voici le résultat de l'évaluation de maturité digitale pour %s.\r\n\r\n", name)
	fmt.Fprintf(&b, "Score global : %d/100\r\n", input.ReadinessScore)
	if label, ok := maturityLabels[input.MaturityLevel]; ok {
		fmt.Fprintf(&b, "Niveau : %s\r\n", label)
	}

	if len(input.CategoryScores) > 0 {
		b.WriteString("\r\nScores par catégorie :\r\n")
		seen := make(map[string]bool, len(input.CategoryScores))
		for _, cat := range scoring.Categories() {
			if s, ok := input.CategoryScores[string(cat)]; ok {
				fmt.Fprintf(&b, "  - %s : %d/100\r\n", cat, s)
				seen[string(cat)] = true
			}
		}
		for cat, s := range input.CategoryScores {
			if !seen[cat] {
				fmt.Fprintf(&b, "  - %s : %d/100\r\n", cat, s)
			}
		}
	}

	if len(input.WeakestCategories) > 0 {
		fmt.Fprintf(&b, "\r\nAxes prioritaires : %s\r\n", strings.Join(input.WeakestCategories, ", "))
	}

	if input.AssessmentID != "" {
		fmt.Fprintf(&b, "\r\nRéférence : %s\r\n", input.AssessmentID)
	}
	return b.String()
}
