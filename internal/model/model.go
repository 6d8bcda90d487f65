package model

// ConnID is the opaque handle of one live connection. The core never looks
// inside it; the transport decides what it actually is.
type ConnID string

const EmptyConnID ConnID = ""

type Decision string

const (
	DecisionLike    Decision = "like"
	DecisionDislike Decision = "dislike"
)

func (d Decision) Valid() bool {
	return d == DecisionLike || d == DecisionDislike
}

// Movie is one immutable deck entry. Shared by reference between both
// players of a room and thrown away with it.
type Movie struct {
	ID         int64  `json:"id" db:"id"`
	Title      string `json:"title" db:"title"`
	PosterPath string `json:"poster_path" db:"poster_path"`
}
