package pipeline

import "strings"

// nbaNameToAbbr joins the two feeds: The Odds API keys games by full
// franchise name, stats.nba.com by abbreviation.
var nbaNameToAbbr = map[string]string{
	"Atlanta Hawks": "ATL", "Boston Celtics": "BOS", "Brooklyn Nets": "BKN",
	"Charlotte Hornets": "CHA", "Chicago Bulls": "CHI", "Cleveland Cavaliers": "CLE",
	"Dallas Mavericks": "DAL", "Denver Nuggets": "DEN", "Detroit Pistons": "DET",
	"Golden State Warriors": "GSW", "Houston Rockets": "HOU", "Indiana Pacers": "IND",
	"Los Angeles Clippers": "LAC", "Los Angeles Lakers": "LAL", "Memphis Grizzlies": "MEM",
	"Miami Heat": "MIA", "Milwaukee Bucks": "MIL", "Minnesota Timberwolves": "MIN",
	"New Orleans Pelicans": "NOP", "New York Knicks": "NYK", "Oklahoma City Thunder": "OKC",
	"Orlando Magic": "ORL", "Philadelphia 76ers": "PHI", "Phoenix Suns": "PHX",
	"Portland Trail Blazers": "POR", "Sacramento Kings": "SAC", "San Antonio Spurs": "SAS",
	"Toronto Raptors": "TOR", "Utah Jazz": "UTA", "Washington Wizards": "WAS",
}

var abbrToNBAName = func() map[string]string {
	m := make(map[string]string, len(nbaNameToAbbr))
	for name, abbr := range nbaNameToAbbr {
		m[abbr] = name
	}
	return m
}()

// ResolveTeamKey converts an odds-feed team name to the key the rating
// map uses. NBA maps full names to abbreviations; college feeds key by
// full name already. Unknown NBA names fall back to a best-effort
// three-letter code so the lookup miss is visible in skip logs.
func ResolveTeamKey(sport, fullName string) string {
	if sport != "nba" {
		return fullName
	}
	if abbr, ok := nbaNameToAbbr[fullName]; ok {
		return abbr
	}
	if len(fullName) >= 3 {
		return strings.ToUpper(fullName[:3])
	}
	return strings.ToUpper(fullName)
}

// TeamFullName is the reverse mapping, used when display output wants
// the franchise name for an abbreviation.
func TeamFullName(sport, abbr string) string {
	if sport != "nba" {
		return abbr
	}
	if name, ok := abbrToNBAName[strings.ToUpper(abbr)]; ok {
		return name
	}
	return abbr
}
