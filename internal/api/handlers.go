package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/abhisek/recall/internal/mastery"
	"github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/spacedrep"
	"github.com/abhisek/recall/internal/store"
)

// itemView is an item with its derived classification and priority.
type itemView struct {
	store.Item
	Classification mastery.Classification `json:"classification"`
	Priority       float64                `json:"priority"`
}

func (s *Server) view(it store.Item) itemView {
	now := s.clock()
	return itemView{
		Item:           it,
		Classification: mastery.Classify(it.Item, now),
		Priority:       spacedrep.PriorityScore(it.Item, now),
	}
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.collections.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if cols == nil {
		cols = []store.Collection{}
	}
	writeJSON(w, http.StatusOK, cols)
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var c store.Collection
	if err := decodeJSON(r, &c); err != nil {
		s.writeError(w, err)
		return
	}
	if c.Name == "" {
		s.writeError(w, badRequest("name is required"))
		return
	}
	c.ID = ""
	if err := s.collections.Create(r.Context(), &c); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// handleListItems lists a collection's items. ?status= filters by
// classification and ?sort=priority orders by review urgency.
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]
	if _, err := s.collections.Get(ctx, id); err != nil {
		s.writeError(w, err)
		return
	}

	items, err := s.items.ListItems(ctx, id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	var status mastery.Status
	if raw := q.Get("status"); raw != "" {
		st, ok := mastery.ParseStatus(raw)
		if !ok {
			s.writeError(w, badRequest("unknown status %q", raw))
			return
		}
		status = st
	}
	switch q.Get("sort") {
	case "", "created":
	case "priority":
		items = spacedrep.SortFunc(items, func(it store.Item) spacedrep.Item { return it.Item }, s.clock())
	default:
		s.writeError(w, badRequest("unknown sort %q", q.Get("sort")))
		return
	}

	out := make([]itemView, 0, len(items))
	for _, it := range items {
		v := s.view(it)
		if status != "" && v.Classification.Status != status {
			continue
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

type createItemRequest struct {
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
	Media  string `json:"media"`
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]
	if _, err := s.collections.Get(ctx, id); err != nil {
		s.writeError(w, err)
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	it := &store.Item{
		CollectionID: id,
		Prompt:       req.Prompt,
		Answer:       req.Answer,
		Media:        req.Media,
		CreatedAt:    s.clock(),
	}
	if err := s.items.Create(ctx, it); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.view(*it))
}

// reviewRequest carries either a native quality (0-5) or a simplified
// rating (1-4). Quality wins when both are set.
type reviewRequest struct {
	Quality *int `json:"quality"`
	Rating  *int `json:"rating"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var quality int
	switch {
	case req.Quality != nil:
		quality = spacedrep.NormalizeQuality(*req.Quality, spacedrep.ScaleNative)
	case req.Rating != nil:
		q, err := spacedrep.ParseRating(strconv.Itoa(*req.Rating), spacedrep.ScaleSimple)
		if err != nil {
			s.writeError(w, err)
			return
		}
		quality = q
	default:
		s.writeError(w, badRequest("quality or rating is required"))
		return
	}

	it, err := s.items.Get(ctx, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	next, err := session.Review(ctx, s.items, s.events, *it, quality, s.clock())
	if err != nil {
		s.writeError(w, err)
		return
	}
	it.Item = next
	writeJSON(w, http.StatusOK, s.view(*it))
}

func (s *Server) handleCollectionStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]
	if _, err := s.collections.Get(ctx, id); err != nil {
		s.writeError(w, err)
		return
	}
	cs, err := s.stats.Collection(ctx, id, s.clock())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (s *Server) handleItemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]
	if _, err := s.items.Get(ctx, id); err != nil {
		s.writeError(w, err)
		return
	}
	is, err := s.stats.Item(ctx, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, is)
}
