package config

import "time"

// Default is a two-level game that runs without a config file.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			Title:       "Zero Deaths",
			FPS:         60,
			StartLevel:  1,
			LogLevel:    "info",
			LogEncoding: "console",
			Cameras:     []string{"first person", "top down"},
			HoldFrames:  8,
			MaxHealth:   10,
			MaxDeaths:   999,
			StartInMenu: true,
		},
		Player: PlayerConfig{
			ID:        "player",
			Spawn:     Vec3{0, 5, 0},
			Scale:     Vec3{4, 4, 4},
			Speed:     0.05,
			TurnAngle: 90,
			LoseCue:   "lose",
			PickupCue: "pickup",
			Keys: KeysConfig{
				Forward:   "w",
				Back:      "s",
				Left:      "a",
				Right:     "d",
				TurnLeft:  "q",
				TurnRight: "e",
				Pause:     "esc",
				Camera:    "c",
				Menu:      "m",
			},
		},
		Sounds: []SoundConfig{
			{ID: "buttonClick", Frequency: 880, Duration: 60 * time.Millisecond, Volume: 0.6, Category: "menu"},
			{ID: "lose", Frequency: 196, Duration: 400 * time.Millisecond, Volume: 0.8, Category: "effect"},
			{ID: "pickup", Frequency: 1320, Duration: 120 * time.Millisecond, Volume: 0.7, Category: "effect"},
			{ID: "background", Frequency: 110, Duration: 2 * time.Second, Volume: 0.2, Loop: true, Category: "music"},
		},
		Levels: []LevelConfig{
			{
				Name: "courtyard",
				Enemies: []EnemyConfig{
					{PropConfig: PropConfig{ID: "enemy 1", Position: Vec3{60, 5, 60}, Scale: Vec3{4, 4, 4}}, Range: 100, Step: 0.2},
				},
				Obstacles: []ObstacleConfig{
					{
						PropConfig: PropConfig{ID: "saw 1", Position: Vec3{30, 5, 0}, Scale: Vec3{4, 4, 4}, Spin: 5},
						Axis:       Vec3{0, 0, 1},
						Amplitude:  20,
						Period:     4 * time.Second,
					},
				},
				Pickups: []PropConfig{
					{ID: "pickup 1", Position: Vec3{0, 5, 80}, Scale: Vec3{2, 2, 2}, Shape: "sphere", Radius: 2, Spin: 2, Pulse: 0.2},
				},
				Zones: []PropConfig{
					{ID: "zone 1", Position: Vec3{0, 5, 40}, Scale: Vec3{20, 10, 20}, Cue: "pickup"},
				},
				Decorators: []PropConfig{
					{ID: "wall north", Position: Vec3{0, 5, 120}, Scale: Vec3{200, 20, 2}},
					{ID: "wall south", Position: Vec3{0, 5, -40}, Scale: Vec3{200, 20, 2}},
				},
			},
			{
				Name: "gauntlet",
				Enemies: []EnemyConfig{
					{PropConfig: PropConfig{ID: "enemy 1", Position: Vec3{-40, 5, 80}, Scale: Vec3{4, 4, 4}}, Range: 100, Step: 0.2},
					{PropConfig: PropConfig{ID: "enemy 2", Position: Vec3{40, 5, 80}, Scale: Vec3{4, 4, 4}}, Range: 100, Step: 0.2},
				},
				Obstacles: []ObstacleConfig{
					{
						PropConfig: PropConfig{ID: "saw 1", Position: Vec3{-20, 5, 40}, Scale: Vec3{4, 4, 4}},
						Axis:       Vec3{1, 0, 0},
						Amplitude:  20,
						Period:     4 * time.Second,
					},
					{
						PropConfig: PropConfig{ID: "saw 2", Position: Vec3{20, 5, 60}, Scale: Vec3{4, 4, 4}},
						Axis:       Vec3{1, 0, 0},
						Amplitude:  20,
						Period:     3 * time.Second,
					},
				},
				Pickups: []PropConfig{
					{ID: "pickup 1", Position: Vec3{-30, 5, 110}, Scale: Vec3{2, 2, 2}, Shape: "sphere", Radius: 2},
					{ID: "pickup 2", Position: Vec3{30, 5, 110}, Scale: Vec3{2, 2, 2}, Shape: "sphere", Radius: 2},
				},
			},
		},
		Server: ServerConfig{
			Enabled: false,
			Listen:  "127.0.0.1:9464",
		},
	}
}
