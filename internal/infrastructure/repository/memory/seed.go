package memory

import (
	"github.com/ostvik/league-hub/internal/domain/profile"
	"github.com/ostvik/league-hub/internal/domain/season"
	"github.com/ostvik/league-hub/internal/domain/squad"
)

const (
	SeasonIDSpring2026 = "season-2026-spring"
	SeasonIDAutumn2025 = "season-2025-autumn"
	SeasonIDSpring2025 = "season-2025-spring"

	SquadIDIronwood  = "squad-ironwood"
	SquadIDNightowls = "squad-nightowls"
	SquadIDHarbor    = "squad-harbor"

	ProfileIDAsta  = "profile-asta"
	ProfileIDBjorn = "profile-bjorn"
	ProfileIDCelia = "profile-celia"
	ProfileIDDmitr = "profile-dmitri"
)

func SeedSeasons() []season.Season {
	return []season.Season{
		{ID: SeasonIDSpring2026, Number: 7, Name: "Spring Split 2026", Status: season.StatusActive},
		{ID: SeasonIDAutumn2025, Number: 6, Name: "Autumn Split 2025", Status: season.StatusCompleted},
		{ID: SeasonIDSpring2025, Number: 5, Name: "Spring Split 2025", Status: season.StatusCompleted},
	}
}

func SeedSquads() []squad.Squad {
	return []squad.Squad{
		{ID: SquadIDIronwood, Name: "Ironwood Ravens", Tag: "IWR", IsActive: true},
		{ID: SquadIDNightowls, Name: "Night Owls", Tag: "OWL", IsActive: true},
		{ID: SquadIDHarbor, Name: "Harbor Kings", Tag: "HBK", IsActive: false},
	}
}

func SeedProfiles() []profile.Profile {
	return []profile.Profile{
		{ID: ProfileIDAsta, Alias: "asta"},
		{ID: ProfileIDBjorn, Alias: "bjorn99"},
		{ID: ProfileIDCelia, Alias: "celia"},
		{ID: ProfileIDDmitr, Alias: "dmitri_k"},
	}
}
