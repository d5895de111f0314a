package resend

// AccessRequest asks for editor access to one tournament's admin desk.
type AccessRequest struct {
	Tag          string `json:"tag"`
	TournamentID int    `json:"tournamentID"`
	Email        string `json:"email"`
}
