package httpapi

import (
	"time"

	"github.com/riskibarqy/ktp-league/internal/domain/match"
	"github.com/riskibarqy/ktp-league/internal/domain/player"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
	"github.com/riskibarqy/ktp-league/internal/domain/user"
	"github.com/riskibarqy/ktp-league/internal/usecase"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
	IsAdmin  bool   `json:"is_admin"`
}

type createTeamRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Tag          string `json:"tag" validate:"required,max=20"`
	IsFreeAgents bool   `json:"is_free_agents"`
}

type updateTeamRequest struct {
	Name *string `json:"name" validate:"omitempty,max=100"`
	Tag  *string `json:"tag" validate:"omitempty,max=20"`
}

type createPlayerRequest struct {
	Nickname string `json:"nickname" validate:"required,max=100"`
	TeamID   *int64 `json:"team_id" validate:"omitempty,min=0"`
}

type updatePlayerRequest struct {
	Nickname *string `json:"nickname" validate:"omitempty,max=100"`
	TeamID   *int64  `json:"team_id" validate:"omitempty,min=0"`
}

type createMatchRequest struct {
	MatchType     string     `json:"match_type" validate:"required,oneof=DRAFT LEAGUE SCRIM"`
	Team1ID       int64      `json:"team1_id" validate:"required,gt=0"`
	Team2ID       int64      `json:"team2_id" validate:"required,gt=0"`
	MapName       *string    `json:"map_name" validate:"omitempty,max=100"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

type updateMatchRequest struct {
	MatchType     *string    `json:"match_type" validate:"omitempty,oneof=DRAFT LEAGUE SCRIM"`
	Team1ID       *int64     `json:"team1_id" validate:"omitempty,gt=0"`
	Team2ID       *int64     `json:"team2_id" validate:"omitempty,gt=0"`
	Team1Score    *int       `json:"team1_score" validate:"omitempty,min=0"`
	Team2Score    *int       `json:"team2_score" validate:"omitempty,min=0"`
	MapName       *string    `json:"map_name" validate:"omitempty,max=100"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	IsCompleted   *bool      `json:"is_completed"`
}

type playerStatRequest struct {
	PlayerID int64 `json:"player_id" validate:"required,gt=0"`
	TeamID   int64 `json:"team_id" validate:"required,gt=0"`
	Half     int   `json:"half" validate:"min=1,max=2"`
	Kills    int   `json:"kills" validate:"min=0"`
	Deaths   int   `json:"deaths" validate:"min=0"`
	Flags    int   `json:"flags" validate:"min=0"`
	IsRinger bool  `json:"is_ringer"`
}

type loadMatchRequest struct {
	MatchType   string              `json:"match_type" validate:"required,oneof=DRAFT LEAGUE SCRIM"`
	Team1ID     int64               `json:"team1_id" validate:"required,gt=0"`
	Team2ID     int64               `json:"team2_id" validate:"required,gt=0"`
	MapName     string              `json:"map_name" validate:"max=100"`
	Team1Score  int                 `json:"team1_score" validate:"min=0"`
	Team2Score  int                 `json:"team2_score" validate:"min=0"`
	PlayerStats []playerStatRequest `json:"player_stats" validate:"dive"`
	PlayedDate  *time.Time          `json:"played_date"`
}

func (r playerStatRequest) input() usecase.StatInput {
	return usecase.StatInput{
		PlayerID: r.PlayerID,
		TeamID:   r.TeamID,
		Half:     r.Half,
		Kills:    r.Kills,
		Deaths:   r.Deaths,
		Flags:    r.Flags,
		IsRinger: r.IsRinger,
	}
}

type tokenDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userDTO struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type teamDTO struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Tag          string    `json:"tag"`
	IsFreeAgents bool      `json:"is_free_agents"`
	CreatedAt    time.Time `json:"created_at"`
	PlayerCount  int       `json:"player_count"`
}

type teamDetailDTO struct {
	teamDTO
	Players       []playerDTO `json:"players"`
	MatchesPlayed int         `json:"matches_played"`
	Wins          int         `json:"wins"`
	Losses        int         `json:"losses"`
}

type playerDTO struct {
	ID            int64     `json:"id"`
	Nickname      string    `json:"nickname"`
	TeamID        *int64    `json:"team_id"`
	TotalKills    int       `json:"total_kills"`
	TotalDeaths   int       `json:"total_deaths"`
	TotalFlags    int       `json:"total_flags"`
	MatchesPlayed int       `json:"matches_played"`
	CreatedAt     time.Time `json:"created_at"`
}

type playerListDTO struct {
	playerDTO
	TeamName *string `json:"team_name"`
	KDRatio  float64 `json:"kd_ratio"`
}

type playerHistoryDTO struct {
	MatchID      int64      `json:"match_id"`
	MatchType    string     `json:"match_type"`
	Team1Name    string     `json:"team1_name"`
	Team2Name    string     `json:"team2_name"`
	Team1Tag     string     `json:"team1_tag"`
	Team2Tag     string     `json:"team2_tag"`
	Team1Score   int        `json:"team1_score"`
	Team2Score   int        `json:"team2_score"`
	MapName      *string    `json:"map_name"`
	PlayedDate   *time.Time `json:"played_date"`
	PlayerKills  int        `json:"player_kills"`
	PlayerDeaths int        `json:"player_deaths"`
	PlayerFlags  int        `json:"player_flags"`
	IsCompleted  bool       `json:"is_completed"`
}

type playerDetailDTO struct {
	playerListDTO
	MatchHistory []playerHistoryDTO `json:"match_history"`
}

type leaderboardDTO struct {
	ID            int64   `json:"id"`
	Nickname      string  `json:"nickname"`
	TeamName      *string `json:"team_name"`
	TotalKills    int     `json:"total_kills"`
	TotalDeaths   int     `json:"total_deaths"`
	TotalFlags    int     `json:"total_flags"`
	MatchesPlayed int     `json:"matches_played"`
	KDRatio       float64 `json:"kd_ratio"`
}

type matchDTO struct {
	ID            int64      `json:"id"`
	MatchType     string     `json:"match_type"`
	Team1ID       int64      `json:"team1_id"`
	Team2ID       int64      `json:"team2_id"`
	Team1Score    int        `json:"team1_score"`
	Team2Score    int        `json:"team2_score"`
	MapName       *string    `json:"map_name"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	PlayedDate    *time.Time `json:"played_date"`
	IsCompleted   bool       `json:"is_completed"`
	CreatedAt     time.Time  `json:"created_at"`
	Team1Name     string     `json:"team1_name"`
	Team2Name     string     `json:"team2_name"`
	Team1Tag      string     `json:"team1_tag"`
	Team2Tag      string     `json:"team2_tag"`
}

type statDTO struct {
	ID             int64  `json:"id"`
	MatchID        int64  `json:"match_id"`
	PlayerID       int64  `json:"player_id"`
	TeamID         int64  `json:"team_id"`
	Half           int    `json:"half"`
	Kills          int    `json:"kills"`
	Deaths         int    `json:"deaths"`
	Flags          int    `json:"flags"`
	IsRinger       bool   `json:"is_ringer"`
	PlayerNickname string `json:"player_nickname,omitempty"`
}

type matchDetailDTO struct {
	matchDTO
	PlayerStats []statDTO `json:"player_stats"`
}

type dashboardDTO struct {
	TotalMatches       int             `json:"total_matches"`
	TotalTeams         int             `json:"total_teams"`
	TotalPlayers       int             `json:"total_players"`
	MostPlayedMap      *string         `json:"most_played_map"`
	MostPlayedMapCount int             `json:"most_played_map_count"`
	TopKDPlayer        *leaderboardDTO `json:"top_kd_player"`
	TopFlagsPlayer     *leaderboardDTO `json:"top_flags_player"`
	RecentMatches      []matchDTO      `json:"recent_matches"`
	UpcomingMatches    []matchDTO      `json:"upcoming_matches"`
}

type mapCountDTO struct {
	MapName     string `json:"map_name"`
	TimesPlayed int    `json:"times_played"`
}

type mapRecordDTO struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type teamStatsDTO struct {
	TeamID            int64                   `json:"team_id"`
	TeamName          string                  `json:"team_name"`
	TeamTag           string                  `json:"team_tag"`
	TotalMatches      int                     `json:"total_matches"`
	Wins              int                     `json:"wins"`
	Losses            int                     `json:"losses"`
	WinRate           float64                 `json:"win_rate"`
	TotalScoreFor     int                     `json:"total_score_for"`
	TotalScoreAgainst int                     `json:"total_score_against"`
	ScoreDifference   int                     `json:"score_difference"`
	MapRecord         map[string]mapRecordDTO `json:"map_record"`
}

type healthDTO struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	API      string `json:"api"`
}

type rootDTO struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

func userToDTO(u user.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Username:  u.Username,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func teamToDTO(t team.Team, playerCount int) teamDTO {
	return teamDTO{
		ID:           t.ID,
		Name:         t.Name,
		Tag:          t.Tag,
		IsFreeAgents: t.IsFreeAgents,
		CreatedAt:    t.CreatedAt,
		PlayerCount:  playerCount,
	}
}

func teamDetailToDTO(d usecase.TeamDetail) teamDetailDTO {
	players := make([]playerDTO, 0, len(d.Players))
	for _, p := range d.Players {
		players = append(players, playerToDTO(p))
	}
	return teamDetailDTO{
		teamDTO:       teamToDTO(d.Team, len(d.Players)),
		Players:       players,
		MatchesPlayed: d.MatchesPlayed,
		Wins:          d.Wins,
		Losses:        d.Losses,
	}
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:            p.ID,
		Nickname:      p.Nickname,
		TeamID:        p.TeamID,
		TotalKills:    p.Totals.Kills,
		TotalDeaths:   p.Totals.Deaths,
		TotalFlags:    p.Totals.Flags,
		MatchesPlayed: p.Totals.MatchesPlayed,
		CreatedAt:     p.CreatedAt,
	}
}

func playerListToDTO(p player.Player, teamName string) playerListDTO {
	return playerListDTO{
		playerDTO: playerToDTO(p),
		TeamName:  optionalString(teamName),
		KDRatio:   p.KDRatio(),
	}
}

func playerDetailToDTO(d usecase.PlayerDetail) playerDetailDTO {
	history := make([]playerHistoryDTO, 0, len(d.History))
	for _, h := range d.History {
		history = append(history, playerHistoryDTO{
			MatchID:      h.MatchID,
			MatchType:    string(h.Type),
			Team1Name:    h.Team1.Name,
			Team2Name:    h.Team2.Name,
			Team1Tag:     h.Team1.Tag,
			Team2Tag:     h.Team2.Tag,
			Team1Score:   h.Team1Score,
			Team2Score:   h.Team2Score,
			MapName:      optionalString(h.MapName),
			PlayedDate:   h.PlayedDate,
			PlayerKills:  h.Kills,
			PlayerDeaths: h.Deaths,
			PlayerFlags:  h.Flags,
			IsCompleted:  h.IsCompleted,
		})
	}
	return playerDetailDTO{
		playerListDTO: playerListToDTO(d.Player, d.TeamName),
		MatchHistory:  history,
	}
}

func leaderboardToDTO(e usecase.LeaderboardEntry) leaderboardDTO {
	return leaderboardDTO{
		ID:            e.Player.ID,
		Nickname:      e.Player.Nickname,
		TeamName:      optionalString(e.TeamName),
		TotalKills:    e.Player.Totals.Kills,
		TotalDeaths:   e.Player.Totals.Deaths,
		TotalFlags:    e.Player.Totals.Flags,
		MatchesPlayed: e.Player.Totals.MatchesPlayed,
		KDRatio:       e.KDRatio,
	}
}

func optionalLeaderboardDTO(e *usecase.LeaderboardEntry) *leaderboardDTO {
	if e == nil {
		return nil
	}
	out := leaderboardToDTO(*e)
	return &out
}

func matchToDTO(v usecase.MatchView) matchDTO {
	m := v.Match
	return matchDTO{
		ID:            m.ID,
		MatchType:     string(m.Type),
		Team1ID:       m.Team1ID,
		Team2ID:       m.Team2ID,
		Team1Score:    m.Team1Score,
		Team2Score:    m.Team2Score,
		MapName:       optionalString(m.MapName),
		ScheduledDate: m.ScheduledDate,
		PlayedDate:    m.PlayedDate,
		IsCompleted:   m.IsCompleted,
		CreatedAt:     m.CreatedAt,
		Team1Name:     v.Team1.Name,
		Team2Name:     v.Team2.Name,
		Team1Tag:      v.Team1.Tag,
		Team2Tag:      v.Team2.Tag,
	}
}

func matchListToDTO(views []usecase.MatchView) []matchDTO {
	out := make([]matchDTO, 0, len(views))
	for _, v := range views {
		out = append(out, matchToDTO(v))
	}
	return out
}

func statToDTO(s match.Stat, nickname string) statDTO {
	return statDTO{
		ID:             s.ID,
		MatchID:        s.MatchID,
		PlayerID:       s.PlayerID,
		TeamID:         s.TeamID,
		Half:           s.Half,
		Kills:          s.Kills,
		Deaths:         s.Deaths,
		Flags:          s.Flags,
		IsRinger:       s.IsRinger,
		PlayerNickname: nickname,
	}
}

func matchDetailToDTO(d usecase.MatchDetail) matchDetailDTO {
	stats := make([]statDTO, 0, len(d.Stats))
	for _, s := range d.Stats {
		stats = append(stats, statToDTO(s.Stat, s.PlayerNickname))
	}
	return matchDetailDTO{
		matchDTO:    matchToDTO(d.MatchView),
		PlayerStats: stats,
	}
}

func dashboardToDTO(d usecase.Dashboard) dashboardDTO {
	out := dashboardDTO{
		TotalMatches:    d.TotalMatches,
		TotalTeams:      d.TotalTeams,
		TotalPlayers:    d.TotalPlayers,
		TopKDPlayer:     optionalLeaderboardDTO(d.TopKDPlayer),
		TopFlagsPlayer:  optionalLeaderboardDTO(d.TopFlags),
		RecentMatches:   matchListToDTO(d.Recent),
		UpcomingMatches: matchListToDTO(d.Upcoming),
	}
	if d.MostPlayedMap != nil {
		name := d.MostPlayedMap.MapName
		out.MostPlayedMap = &name
		out.MostPlayedMapCount = d.MostPlayedMap.TimesPlayed
	}
	return out
}

func teamStatsToDTO(s usecase.TeamStats) teamStatsDTO {
	maps := make(map[string]mapRecordDTO, len(s.Record.MapRecord))
	for name, rec := range s.Record.MapRecord {
		maps[name] = mapRecordDTO{Wins: rec.Wins, Losses: rec.Losses}
	}
	return teamStatsDTO{
		TeamID:            s.Team.ID,
		TeamName:          s.Team.Name,
		TeamTag:           s.Team.Tag,
		TotalMatches:      s.Record.Matches,
		Wins:              s.Record.Wins,
		Losses:            s.Record.Losses,
		WinRate:           s.Record.WinRate(),
		TotalScoreFor:     s.Record.ScoreFor,
		TotalScoreAgainst: s.Record.ScoreAgainst,
		ScoreDifference:   s.Record.ScoreDifference(),
		MapRecord:         maps,
	}
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
