package cricket

type MatchResponse struct {
	Data []Match `json:"data"`
	Meta struct {
		CurrentPage int `json:"current_page"`
		From        int `json:"from"`
		LastPage    int `json:"last_page"`
	} `json:"meta"`
}

type NewsResponse struct {
	Data []NewsItem `json:"data"`
	Meta struct {
		CurrentPage int `json:"current_page"`
		From        int `json:"from"`
		LastPage    int `json:"last_page"`
	} `json:"meta"`
}

// Match is the upstream representation. Fields are pointers because the
// upstream sends partial objects on incremental syncs; only non-nil fields
// are merged into the stored document.
type Match struct {
	MatchID    *string `json:"matchId"`
	Tournament *string `json:"tournament"`
	Title      *string `json:"title"`
	Status     *string `json:"status"`
	Started    *bool   `json:"started"`
	Ended      *bool   `json:"ended"`
	Score      *string `json:"score"`
	HomeTeam   *string `json:"homeTeam"`
	AwayTeam   *string `json:"awayTeam"`
	Venue      *string `json:"venue"`
	Date       *string `json:"date"`
	Time       *string `json:"time"`
	Updated    *string `json:"updated"`
}

// MatchSummary is the flattened form served to portal pages and carried in
// match-update push events. MatchID is the merge key.
type MatchSummary struct {
	MatchID    string `json:"matchId" firestore:"MatchId"`
	Tournament string `json:"tournament" firestore:"Tournament"`
	Title      string `json:"title" firestore:"Title"`
	Status     string `json:"status" firestore:"Status"`
	Started    bool   `json:"started" firestore:"Started"`
	Ended      bool   `json:"ended" firestore:"Ended"`
	Score      string `json:"score,omitempty" firestore:"Score"`
	HomeTeam   string `json:"homeTeam" firestore:"HomeTeam"`
	AwayTeam   string `json:"awayTeam" firestore:"AwayTeam"`
	Venue      string `json:"venue" firestore:"Venue"`
	Date       string `json:"date" firestore:"Date"`
	Time       string `json:"time" firestore:"Time"`
}

type NewsItem struct {
	ID       string `json:"id" firestore:"Id"`
	Title    string `json:"title" firestore:"Title"`
	Summary  string `json:"summary" firestore:"Summary"`
	Body     string `json:"body,omitempty" firestore:"Body"`
	Author   string `json:"author" firestore:"Author"`
	Posted   string `json:"posted" firestore:"Posted"`
	ImageURL string `json:"imageUrl,omitempty" firestore:"ImageUrl"`
}

type Player struct {
	ID      string `json:"id" firestore:"Id"`
	Name    string `json:"name" firestore:"Name"`
	Country string `json:"country" firestore:"Country"`
	Role    string `json:"role" firestore:"Role"`
	Batting string `json:"batting,omitempty" firestore:"Batting"`
	Bowling string `json:"bowling,omitempty" firestore:"Bowling"`
}

type Team struct {
	ID      string `json:"id" firestore:"Id"`
	Name    string `json:"name" firestore:"Name"`
	Country string `json:"country" firestore:"Country"`
	Coach   string `json:"coach,omitempty" firestore:"Coach"`
}

type Venue struct {
	ID       string `json:"id" firestore:"Id"`
	Name     string `json:"name" firestore:"Name"`
	City     string `json:"city" firestore:"City"`
	Country  string `json:"country" firestore:"Country"`
	Capacity int    `json:"capacity,omitempty" firestore:"Capacity"`
}

type TeamRanking struct {
	Rank   int    `json:"rank" firestore:"Rank"`
	Team   string `json:"team" firestore:"Team"`
	Rating int    `json:"rating" firestore:"Rating"`
	Format string `json:"format" firestore:"Format"`
}

// CustomTournament is a hand-curated tournament uploaded through the admin
// API instead of synced from upstream.
type CustomTournament struct {
	Tag     *string  `json:"tag"`
	Matches *[]Match `json:"matches"`
}

// Tournament is the per-tournament sync bookkeeping document.
type Tournament struct {
	ID          *int    `json:"id" firestore:"Id"`
	Name        *string `json:"name" firestore:"Name"`
	Tag         *string `json:"tag" firestore:"Tag"`
	StartDate   *string `json:"startDate" firestore:"StartDate"`
	EndDate     *string `json:"endDate" firestore:"EndDate"`
	Type        *string `json:"type" firestore:"Type"`
	LastSynced  string  `json:"-" firestore:"LastSynced"`
	LastRequest string  `json:"-" firestore:"LastRequest"`
}
