package stage

import "github.com/letapeapp/race-engine-go/pkg/model"

// builtin stage catalog, ported 1:1 from the mobile app
//
//nolint:funlen,lll // data
func builtinStages() []*model.StageProfile {
	lvl := func(duration, height int) model.StageLevel {
		return model.StageLevel{Duration: duration, Height: height}
	}
	rest := func(duration, height int) model.StageLevel {
		return model.StageLevel{Duration: duration, Height: height, Rest: true}
	}
	return []*model.StageProfile{
		{
			ID:          "everest",
			Title:       "L'Everest",
			Color:       "#FFD700",
			Difficulty:  "Extrême",
			Description: "Le toit du monde. Des cols mythiques et des descentes vertigineuses.",
			ProfileTag:  "montagne",
			Levels: []model.StageLevel{
				// approach
				lvl(600, 10), lvl(300, 30), rest(600, 30),
				// first climb
				lvl(300, 50), lvl(600, 50), rest(600, 50), lvl(300, 70),
				// descent
				lvl(900, 30), rest(600, 30),
				// progressive climb
				lvl(300, 50), lvl(180, 90), rest(600, 90), lvl(300, 110), lvl(600, 110),
				// the wall
				rest(180, 150),
				lvl(900, 100),
				lvl(300, 120),
				// final climb
				rest(180, 160), lvl(600, 160),
				// pif paf
				lvl(300, 180),
			},
		},
		{
			ID:          "mont_ventoux",
			Title:       "Le Mont Ventoux",
			Color:       "#E74C3C",
			Difficulty:  "Moyen",
			Description: "Une montée interminable. Gérez votre effort jusqu'au sommet chauve.",
			ProfileTag:  "ascension",
			Levels: []model.StageLevel{
				// plain
				lvl(600, 20), lvl(600, 20),
				// forest ascent
				rest(300, 40), lvl(300, 60), lvl(300, 80), rest(300, 100), lvl(300, 120), lvl(300, 140),
				// Chalet Reynard
				rest(600, 140), lvl(600, 140),
				// stone desert
				lvl(300, 160), rest(300, 180), lvl(300, 200), lvl(300, 220), rest(300, 240), lvl(300, 260), lvl(300, 280),
				// Col des tempêtes
				rest(600, 280), lvl(180, 350),
				// pif paf
				lvl(600, 350),
			},
		},
		{
			ID:          "enfer_du_nord",
			Title:       "L'Enfer du Nord",
			Color:       "#555555",
			Difficulty:  "Difficile",
			Description: "Le royaume des pavés. Ça secoue : alternance de calme et de murs brutaux.",
			ProfileTag:  "pavés",
			Levels: []model.StageLevel{
				lvl(600, 10), lvl(600, 10),
				// cobbled sector 1
				rest(300, 30),
				lvl(900, 10), lvl(600, 10),
				// cobbled sector 2
				rest(300, 30),
				lvl(900, 10), lvl(600, 10),
				// Trouée d'Arenberg
				rest(180, 40),
				lvl(900, 10), lvl(600, 10),
				// cobbled sector 4
				rest(300, 40),
				lvl(900, 10), lvl(600, 10),
				// Carrefour de l'Arbre
				rest(120, 40),
				lvl(900, 10),
				rest(180, 40),
				// velodrome
				lvl(900, 10), lvl(180, 40),
				// pif paf
				lvl(600, 40),
			},
		},
		{
			ID:          "la_soif",
			Title:       "L'Apéro Sprint",
			Color:       "#D35400",
			Difficulty:  "Intense",
			Description: "10 étapes rapides. Une série de murs de 3 minutes pour les assoiffés.",
			ProfileTag:  "sprint",
			Levels: []model.StageLevel{
				lvl(300, 10),
				lvl(180, 40),
				rest(300, 60),
				lvl(180, 90), lvl(180, 120),
				rest(300, 140),
				lvl(180, 170), lvl(180, 200),
				rest(300, 220),
				// pif paf
				lvl(600, 220),
			},
		},
	}
}
