package state

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/spoolfinder/internal/card"
	"github.com/five82/spoolfinder/internal/spool"
)

func sampleRecords() spool.Collection {
	return spool.NewCollection([]spool.Record{
		{ID: "S-100", Name: "Spool100", Status: "Instalado", Location: "Zona A",
			PhotoURL: "https://drive.google.com/file/d/XYZ/view"},
		{ID: "A1", Name: "Alpha", PlanURL: "https://example.com/a1.pdf"},
		{ID: "a2", Name: "alpine"},
		{ID: "B1", Name: "Bravo"},
	})
}

// loaded returns a populated session and the generation it was loaded with.
func loaded(t *testing.T) Session {
	t.Helper()
	s, effects := Reduce(New(Config{}, ModeTypeahead), LoadRequested{})
	require.Equal(t, []Effect{StartLoad{Generation: 1}}, effects)
	s, _ = Reduce(s, LoadSucceeded{Generation: 1, Records: sampleRecords(), Source: "direct"})
	require.Equal(t, PhasePopulated, s.Phase)
	return s
}

func TestNew_AppliesDefaults(t *testing.T) {
	s := New(Config{}, ModeSelector)
	assert.Equal(t, spool.DefaultSuggestionLimit, s.Config.SuggestionLimit)
	assert.Equal(t, DefaultDebounce, s.Config.Debounce)
	assert.Equal(t, ModeSelector, s.Mode)
	assert.Equal(t, PhaseEmpty, s.Phase)
	assert.Equal(t, Idle, s.Interaction())
}

func TestReduce_LoadLifecycle(t *testing.T) {
	s := loaded(t)
	assert.Equal(t, 4, s.Collection.Len())
	assert.Equal(t, "direct", s.Source)

	s, effects := Reduce(s, LoadRequested{})
	assert.Equal(t, []Effect{StartLoad{Generation: 2}}, effects)
	assert.Equal(t, PhaseLoading, s.Phase)
	assert.True(t, s.Collection.Empty(), "reload discards the previous collection")

	boom := errors.New("all sources failed")
	s, _ = Reduce(s, LoadFailed{Generation: 2, Err: boom})
	assert.Equal(t, PhaseLoadFailed, s.Phase)
	assert.ErrorIs(t, s.LoadErr, boom)
}

func TestReduce_StaleLoadResultsAreIgnored(t *testing.T) {
	s, _ := Reduce(New(Config{}, ModeTypeahead), LoadRequested{})
	s, _ = Reduce(s, LoadRequested{})
	require.Equal(t, uint64(2), s.Generation)

	s, _ = Reduce(s, LoadSucceeded{Generation: 1, Records: sampleRecords()})
	assert.Equal(t, PhaseLoading, s.Phase, "an older load must not populate")

	s, _ = Reduce(s, LoadSucceeded{Generation: 2, Records: spool.NewCollection([]spool.Record{{ID: "N"}})})
	require.Equal(t, PhasePopulated, s.Phase)

	s, _ = Reduce(s, LoadFailed{Generation: 1, Err: errors.New("late")})
	assert.Equal(t, PhasePopulated, s.Phase)
	assert.NoError(t, s.LoadErr)
	assert.Equal(t, 1, s.Collection.Len())
}

func TestReduce_QueryIgnoredUntilPopulated(t *testing.T) {
	s, _ := Reduce(New(Config{}, ModeTypeahead), LoadRequested{})
	s, effects := Reduce(s, QueryChanged{Field: spool.FieldID, Text: "A"})
	assert.Empty(t, effects)
	assert.Empty(t, s.Inputs.ID)
}

func TestReduce_TypeaheadDebounce(t *testing.T) {
	s := loaded(t)
	s.Config.Debounce = 250 * time.Millisecond

	s, effects := Reduce(s, QueryChanged{Field: spool.FieldID, Text: "a"})
	require.Len(t, effects, 1)
	first := effects[0].(ScheduleFilter)
	assert.Equal(t, 250*time.Millisecond, first.Delay)

	s, effects = Reduce(s, QueryChanged{Field: spool.FieldID, Text: "a1"})
	second := effects[0].(ScheduleFilter)
	assert.Greater(t, second.Seq, first.Seq)

	s, _ = Reduce(s, FilterDue{Field: first.Field, Seq: first.Seq})
	assert.Empty(t, s.Suggestions, "superseded filter must not apply")

	s, _ = Reduce(s, FilterDue{Field: second.Field, Seq: second.Seq})
	require.Len(t, s.Suggestions, 1)
	assert.Equal(t, spool.ID("A1"), s.Suggestions[0].ID)
	assert.Equal(t, Suggesting, s.Interaction())
}

func TestReduce_FilterCaseInsensitiveOrdered(t *testing.T) {
	s := loaded(t)
	s, effects := Reduce(s, QueryChanged{Field: spool.FieldID, Text: "a"})
	due := effects[0].(ScheduleFilter)
	s, _ = Reduce(s, FilterDue{Field: due.Field, Seq: due.Seq})

	var ids []string
	for _, r := range s.Suggestions {
		ids = append(ids, r.ID.String())
	}
	assert.Equal(t, []string{"A1", "a2"}, ids)
}

func TestReduce_QueryClearsOtherFieldAndBlankClearsSuggestions(t *testing.T) {
	s := loaded(t)
	s, effects := Reduce(s, QueryChanged{Field: spool.FieldName, Text: "al"})
	due := effects[0].(ScheduleFilter)
	s, _ = Reduce(s, FilterDue{Field: due.Field, Seq: due.Seq})
	require.Len(t, s.Suggestions, 2)

	s, effects = Reduce(s, QueryChanged{Field: spool.FieldID, Text: "B"})
	assert.Empty(t, s.Inputs.Name, "typing in one field clears the other")
	assert.Empty(t, s.Suggestions)
	require.Len(t, effects, 1)

	s, effects = Reduce(s, QueryChanged{Field: spool.FieldID, Text: "  "})
	assert.Empty(t, effects)
	assert.Empty(t, s.Suggestions)
}

func TestReduce_ChooseSuggestionDisplaysAndProbes(t *testing.T) {
	s := loaded(t)
	s, effects := Reduce(s, QueryChanged{Field: spool.FieldName, Text: "spool"})
	due := effects[0].(ScheduleFilter)
	s, _ = Reduce(s, FilterDue{Field: due.Field, Seq: due.Seq})
	require.Len(t, s.Suggestions, 1)

	s, effects = Reduce(s, SuggestionChosen{})
	assert.Empty(t, s.Suggestions)
	assert.Equal(t, "Spool100", s.Inputs.Name)
	require.Equal(t, ResultFound, s.Result.Kind)
	assert.Equal(t, "Spool100", s.Result.Card.Title)
	assert.Equal(t, Displaying, s.Interaction())

	require.Len(t, effects, 1)
	probe := effects[0].(ProbeMedia)
	assert.Equal(t, "S-100", probe.ID)
	assert.Equal(t, card.SlotPhoto, probe.Slot)
	assert.Equal(t, "https://drive.google.com/uc?export=view&id=XYZ", probe.URL)
}

func TestReduce_SuggestionMovedClamps(t *testing.T) {
	s := loaded(t)
	s, effects := Reduce(s, QueryChanged{Field: spool.FieldID, Text: "1"})
	due := effects[0].(ScheduleFilter)
	s, _ = Reduce(s, FilterDue{Field: due.Field, Seq: due.Seq})
	require.Len(t, s.Suggestions, 3)

	s, _ = Reduce(s, SuggestionMoved{Delta: -1})
	assert.Equal(t, 0, s.Highlight)
	s, _ = Reduce(s, SuggestionMoved{Delta: 5})
	assert.Equal(t, 2, s.Highlight)

	rec, ok := s.Highlighted()
	require.True(t, ok)
	assert.Equal(t, spool.ID("B1"), rec.ID)
}

func TestReduce_SubmittedLooksUpTypedText(t *testing.T) {
	s := loaded(t)
	s, _ = Reduce(s, QueryChanged{Field: spool.FieldID, Text: "B1"})
	s, _ = Reduce(s, Submitted{Field: spool.FieldID})
	require.Equal(t, ResultFound, s.Result.Kind)
	assert.Equal(t, "Bravo", s.Result.Record.Name)

	s, _ = Reduce(s, QueryChanged{Field: spool.FieldName, Text: "ALPHA"})
	s, _ = Reduce(s, Submitted{Field: spool.FieldName})
	require.Equal(t, ResultFound, s.Result.Kind)
	assert.Equal(t, spool.ID("A1"), s.Result.Record.ID)
}

func TestReduce_NotFoundIsDistinctAndLeavesCollection(t *testing.T) {
	s := loaded(t)
	before := s.Collection.Records()

	s, effects := Reduce(s, QueryChanged{Field: spool.FieldID, Text: "ZZZ"})
	s, _ = Reduce(s, Submitted{Field: spool.FieldID})
	_ = effects

	assert.Equal(t, ResultNotFound, s.Result.Kind)
	assert.Equal(t, "ZZZ", s.Result.Query)
	assert.Equal(t, before, s.Collection.Records())
}

func TestReduce_SelectorMode(t *testing.T) {
	s := loaded(t)
	s, _ = Reduce(s, ModeToggled{})
	require.Equal(t, ModeSelector, s.Mode)

	s, _ = Reduce(s, Selected{Field: spool.FieldName, ID: "a2"})
	assert.Equal(t, "a2", s.Selection.Name)
	require.Equal(t, ResultFound, s.Result.Kind)
	assert.Equal(t, "alpine", s.Result.Record.Name)

	s, _ = Reduce(s, Selected{Field: spool.FieldID, ID: "B1"})
	assert.Empty(t, s.Selection.Name, "choosing one selector clears the other")
	assert.Equal(t, "B1", s.Selection.ID)

	s, _ = Reduce(s, Selected{Field: spool.FieldID, ID: ""})
	assert.Equal(t, ResultNone, s.Result.Kind)

	s, _ = Reduce(s, ModeToggled{})
	assert.Equal(t, ModeTypeahead, s.Mode)
	assert.Equal(t, Fields{}, s.Selection)
}

func TestReduce_MediaProbedOnlyTouchesCurrentCard(t *testing.T) {
	s := loaded(t)
	s, _ = Reduce(s, Selected{Field: spool.FieldID, ID: "A1"})
	require.Equal(t, ResultFound, s.Result.Kind)

	s, _ = Reduce(s, MediaProbed{ID: "S-100", Slot: card.SlotPlan, Err: errors.New("404")})
	m, ok := s.Result.Card.MediaFor(card.SlotPlan)
	require.True(t, ok)
	assert.Equal(t, card.Unknown, m.State)

	s, _ = Reduce(s, MediaProbed{ID: "A1", Slot: card.SlotPlan, Err: errors.New("404")})
	m, _ = s.Result.Card.MediaFor(card.SlotPlan)
	assert.Equal(t, card.Broken, m.State)
}

func TestReduce_DismissedInvalidatesPendingFilter(t *testing.T) {
	s := loaded(t)
	s, effects := Reduce(s, QueryChanged{Field: spool.FieldID, Text: "a"})
	due := effects[0].(ScheduleFilter)

	s, _ = Reduce(s, Dismissed{})
	s, _ = Reduce(s, FilterDue{Field: due.Field, Seq: due.Seq})
	assert.Empty(t, s.Suggestions)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeSelector, ParseMode("selector"))
	assert.Equal(t, ModeTypeahead, ParseMode("typeahead"))
	assert.Equal(t, ModeTypeahead, ParseMode("bogus"))
}
