// internal/scoring/default_catalog.go
package scoring

func levelOptions(labels ...string) []Option {
	opts := make([]Option, len(labels))
	for i, l := range labels {
		opts[i] = Option{Value: i + 1, Label: l}
	}
	return opts
}

var maturityScale = []string{
	"Inexistant",
	"Initial",
	"En cours",
	"Maîtrisé",
	"Optimisé",
}

func defaultQuestions() []Question {
	return []Question{
		// Infrastructure
		{
			ID:       "infra_connectivity",
			Category: CategoryInfrastructure,
			Text:     "Quelle est la qualité de la connectivité internet de vos sites ?",
			Options:  levelOptions("Aucune", "Intermittente", "Correcte", "Fiable", "Très haut débit redondant"),
			Weight:   3,
		},
		{
			ID:       "infra_cloud",
			Category: CategoryInfrastructure,
			Text:     "Dans quelle mesure utilisez-vous des services cloud ?",
			Options:  levelOptions("Aucun usage", "Messagerie uniquement", "Quelques applications", "Majorité des applications", "Cloud-first"),
			Weight:   2,
		},
		{
			ID:       "infra_security",
			Category: CategoryInfrastructure,
			Text:     "Quel est le niveau de sécurité de votre système d'information ?",
			Options:  levelOptions(maturityScale...),
			Weight:   2,
		},

		// Données
		{
			ID:       "data_collection",
			Category: CategoryData,
			Text:     "Comment collectez-vous les données de votre activité ?",
			Options:  levelOptions("Sur papier", "Tableurs isolés", "Logiciels métiers", "Base centralisée", "Collecte automatisée en temps réel"),
			Weight:   2,
		},
		{
			ID:       "data_quality",
			Category: CategoryData,
			Text:     "Quelle confiance accordez-vous à la qualité de vos données ?",
			Options:  levelOptions(maturityScale...),
			Weight:   2,
		},
		{
			ID:       "data_analytics",
			Category: CategoryData,
			Text:     "Utilisez-vous vos données pour piloter vos décisions ?",
			Options:  levelOptions("Jamais", "Rarement", "Rapports ponctuels", "Tableaux de bord réguliers", "Analyses prédictives"),
			Weight:   3,
		},

		// Compétences
		{
			ID:       "skills_digital",
			Category: CategorySkills,
			Text:     "Quel est le niveau de compétences numériques de vos équipes ?",
			Options:  levelOptions(maturityScale...),
			Weight:   3,
		},
		{
			ID:       "skills_training",
			Category: CategorySkills,
			Text:     "Formez-vous régulièrement vos collaborateurs au numérique ?",
			Options:  levelOptions("Jamais", "Exceptionnellement", "Une fois par an", "Plusieurs fois par an", "Parcours continu"),
			Weight:   2,
		},
		{
			ID:       "skills_ai",
			Category: CategorySkills,
			Text:     "Disposez-vous de compétences en intelligence artificielle ?",
			Options:  levelOptions("Aucune", "Sensibilisation", "Profils isolés", "Équipe dédiée", "Centre d'excellence"),
			Weight:   1,
		},

		// Processus
		{
			ID:       "process_automation",
			Category: CategoryProcess,
			Text:     "Vos processus clés sont-ils automatisés ?",
			Options:  levelOptions("Entièrement manuels", "Quelques outils", "Partiellement", "Majoritairement", "De bout en bout"),
			Weight:   3,
		},
		{
			ID:       "process_payments",
			Category: CategoryProcess,
			Text:     "Acceptez-vous les paiements numériques (mobile money, carte) ?",
			Options:  levelOptions("Non", "En projet", "Un canal", "Plusieurs canaux", "Tous les canaux intégrés"),
			Weight:   2,
		},
		{
			ID:       "process_customer",
			Category: CategoryProcess,
			Text:     "Comment gérez-vous la relation client ?",
			Options:  levelOptions("Sans outil", "Tableur", "CRM basique", "CRM intégré", "Omnicanal personnalisé"),
			Weight:   2,
		},

		// Stratégie
		{
			ID:       "strategy_vision",
			Category: CategoryStrategy,
			Text:     "Votre direction a-t-elle une feuille de route numérique ?",
			Options:  levelOptions("Aucune", "Idées informelles", "Document rédigé", "Feuille de route suivie", "Stratégie pilotée et mesurée"),
			Weight:   3,
		},
		{
			ID:       "strategy_budget",
			Category: CategoryStrategy,
			Text:     "Quelle part du budget consacrez-vous au numérique ?",
			Options:  levelOptions("0 %", "Moins de 2 %", "2 à 5 %", "5 à 10 %", "Plus de 10 %"),
			Weight:   2,
		},
		{
			ID:       "strategy_partnerships",
			Category: CategoryStrategy,
			Text:     "Travaillez-vous avec des partenaires technologiques ?",
			Options:  levelOptions("Jamais", "Ponctuellement", "Un partenaire", "Plusieurs partenaires", "Écosystème structuré"),
			Weight:   1,
		},
	}
}

// DefaultCatalog returns the built-in questionnaire.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultQuestions())
	if err != nil {
		panic("scoring: built-in catalog is invalid: " + err.Error())
	}
	return c
}
