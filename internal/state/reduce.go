package state

import (
	"strings"

	"github.com/five82/spoolfinder/internal/card"
	"github.com/five82/spoolfinder/internal/spool"
)

// Reduce applies ev to s and returns the new session plus the effects the
// caller must run. It performs no I/O.
func Reduce(s Session, ev Event) (Session, []Effect) {
	switch ev := ev.(type) {
	case LoadRequested:
		return requestLoad(s)
	case LoadSucceeded:
		if ev.Generation != s.Generation || s.Phase != PhaseLoading {
			return s, nil
		}
		s.Phase = PhasePopulated
		s.Collection = ev.Records
		s.Source = ev.Source
		s.LoadErr = nil
		return s, nil
	case LoadFailed:
		if ev.Generation != s.Generation || s.Phase != PhaseLoading {
			return s, nil
		}
		s.Phase = PhaseLoadFailed
		s.LoadErr = ev.Err
		return s, nil
	case QueryChanged:
		return changeQuery(s, ev)
	case FilterDue:
		if !s.Ready() || ev.Seq != s.FilterSeq || s.Mode != ModeTypeahead {
			return s, nil
		}
		s.Suggestions = s.Collection.Filter(ev.Field, s.Inputs.Get(ev.Field), s.Config.SuggestionLimit)
		s.SuggestField = ev.Field
		s.Highlight = 0
		return s, nil
	case SuggestionMoved:
		if len(s.Suggestions) == 0 {
			return s, nil
		}
		s.Highlight = clamp(s.Highlight+ev.Delta, 0, len(s.Suggestions)-1)
		return s, nil
	case SuggestionChosen:
		return chooseSuggestion(s, ev)
	case Submitted:
		return submit(s, ev.Field)
	case Selected:
		if !s.Ready() {
			return s, nil
		}
		s.Selection.set(ev.Field, ev.ID)
		s.Selection.set(ev.Field.Other(), "")
		s.Focus = ev.Field
		return show(s, ev.ID, s.Collection.Lookup)
	case Focused:
		s.Focus = ev.Field
		s = dismiss(s)
		return s, nil
	case Dismissed:
		return dismiss(s), nil
	case ModeToggled:
		s.Mode = s.Mode.Toggle()
		s.Inputs = Fields{}
		s.Selection = Fields{}
		s = dismiss(s)
		return s, nil
	case MediaProbed:
		if s.Result.Kind != ResultFound || s.Result.Record.ID.String() != ev.ID {
			return s, nil
		}
		availability := card.Available
		if ev.Err != nil {
			availability = card.Broken
		}
		s.Result.Card = s.Result.Card.WithAvailability(ev.Slot, availability)
		return s, nil
	default:
		return s, nil
	}
}

func requestLoad(s Session) (Session, []Effect) {
	s.Generation++
	s.Phase = PhaseLoading
	s.Collection = spool.Collection{}
	s.Source = ""
	s.LoadErr = nil
	s.Inputs = Fields{}
	s.Selection = Fields{}
	s.Result = Result{}
	s = dismiss(s)
	return s, []Effect{StartLoad{Generation: s.Generation}}
}

func changeQuery(s Session, ev QueryChanged) (Session, []Effect) {
	if !s.Ready() {
		return s, nil
	}
	s.Focus = ev.Field
	s.Inputs.set(ev.Field, ev.Text)
	s.Inputs.set(ev.Field.Other(), "")
	s = dismiss(s)

	if strings.TrimSpace(ev.Text) == "" {
		return s, nil
	}
	return s, []Effect{ScheduleFilter{Field: ev.Field, Seq: s.FilterSeq, Delay: s.Config.Debounce}}
}

func chooseSuggestion(s Session, ev SuggestionChosen) (Session, []Effect) {
	if !s.Ready() {
		return s, nil
	}
	id := ev.ID
	if strings.TrimSpace(id) == "" {
		rec, ok := s.Highlighted()
		if !ok {
			return s, nil
		}
		id = rec.ID.String()
	}

	field := s.SuggestField
	if rec, ok := s.Collection.Lookup(id); ok {
		s.Inputs.set(field, rec.Value(field))
		s.Inputs.set(field.Other(), "")
	}
	s = dismiss(s)
	return show(s, id, s.Collection.Lookup)
}

func submit(s Session, field spool.Field) (Session, []Effect) {
	if !s.Ready() {
		return s, nil
	}
	if field == s.SuggestField {
		if rec, ok := s.Highlighted(); ok {
			return chooseSuggestion(s, SuggestionChosen{ID: rec.ID.String()})
		}
	}
	s = dismiss(s)
	lookup := s.Collection.Lookup
	if field == spool.FieldName {
		lookup = s.Collection.LookupName
	}
	return show(s, s.Inputs.Get(field), lookup)
}

// show runs lookup for query and records the result. Found cards emit one
// probe per media reference.
func show(s Session, query string, lookup func(string) (spool.Record, bool)) (Session, []Effect) {
	if strings.TrimSpace(query) == "" {
		s.Result = Result{}
		return s, nil
	}
	rec, ok := lookup(query)
	if !ok {
		s.Result = Result{Kind: ResultNotFound, Query: query}
		return s, nil
	}

	c := card.Build(rec)
	s.Result = Result{Kind: ResultFound, Query: query, Record: rec, Card: c}

	var effects []Effect
	for _, m := range c.Media {
		effects = append(effects, ProbeMedia{ID: rec.ID.String(), Slot: m.Slot, URL: m.Link.View})
	}
	return s, effects
}

// dismiss hides suggestions and invalidates any pending filter.
func dismiss(s Session) Session {
	s.Suggestions = nil
	s.Highlight = 0
	s.FilterSeq++
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
