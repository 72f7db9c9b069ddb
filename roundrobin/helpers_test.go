/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"fmt"
)

func testTeams(n int) []Team {
	teams := make([]Team, n)
	for i := range teams {
		teams[i] = Team{
			TeamID: UnitID(i + 1),
			Players: [2]Player{
				{ID: PlayerID(2*i + 1), Name: fmt.Sprintf("P%v", 2*i+1)},
				{ID: PlayerID(2*i + 2), Name: fmt.Sprintf("P%v", 2*i+2)},
			},
		}
	}
	return teams
}

func testUnits(n int) []Unit {
	return Entrants{Teams: testTeams(n)}.units()
}

func testPlayers(n int) []Player {
	players := make([]Player, n)
	for i := range players {
		players[i] = Player{ID: PlayerID(i + 1), Name: fmt.Sprintf("Player%v", i+1)}
	}
	return players
}

func testMixedPlayers(men, women int) []Player {
	var players []Player
	for i := 0; i < men; i++ {
		players = append(players, Player{ID: PlayerID(len(players) + 1),
			Name: fmt.Sprintf("M%v", i+1), Role: RoleMale})
	}
	for i := 0; i < women; i++ {
		players = append(players, Player{ID: PlayerID(len(players) + 1),
			Name: fmt.Sprintf("F%v", i+1), Role: RoleFemale})
	}
	return players
}

func key(a, b int) MatchupKey {
	return NewMatchupKey(UnitID(a), UnitID(b))
}
