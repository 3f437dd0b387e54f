package domain

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Key is a typed key into a ViewState. The type parameter gives compile-time
// type safety when reading and writing values.
type Key[T any] struct{ name string }

// Dashboard view keys.
var (
	// KeySelectedCountry is the country whose drill-down is open.
	KeySelectedCountry = Key[string]{"view.selected_country"}

	// KeyComparisons holds the comparison countries of the year chart, one
	// per picker slot. Empty strings mark unused slots.
	KeyComparisons = Key[[]string]{"view.comparisons"}

	// KeyCriterion is the sort criterion of the top countries chart.
	KeyCriterion = Key[Criterion]{"view.criterion"}

	// KeyDarkMode is the user's color scheme preference.
	KeyDarkMode = Key[bool]{"view.dark_mode"}
)

// ViewState is the immutable UI state of one dashboard session. The view
// layer owns it and passes it explicitly to queries; every transition
// returns a new value and leaves the receiver unchanged.
type ViewState struct {
	data map[string]any
}

// NewViewState returns an empty state: nothing selected, total criterion.
func NewViewState() ViewState {
	return ViewState{data: map[string]any{KeyCriterion.name: CriterionTotal}}
}

// Get retrieves a value with compile-time type safety. The returned value
// is a deep copy.
func Get[T any](s ViewState, key Key[T]) (T, bool) {
	var zero T
	value, exists := s.data[key.name]
	if !exists {
		return zero, false
	}
	val, ok := deepCopyValue(value).(T)
	return val, ok
}

// With returns a copy of s with key set to value.
func With[T any](s ViewState, key Key[T], value T) ViewState {
	data := maps.Clone(s.data)
	if data == nil {
		data = make(map[string]any)
	}
	data[key.name] = deepCopyValue(value)
	return ViewState{data: data}
}

// Without returns a copy of s with key removed.
func Without[T any](s ViewState, key Key[T]) ViewState {
	data := maps.Clone(s.data)
	delete(data, key.name)
	return ViewState{data: data}
}

// String returns a string representation of the state for debugging.
func (s ViewState) String() string { return fmt.Sprintf("ViewState%v", s.data) }

// SelectedCountry returns the selected country, or "" when none is.
func (s ViewState) SelectedCountry() string {
	c, _ := Get(s, KeySelectedCountry)
	return c
}

// Criterion returns the top list criterion, defaulting to CriterionTotal.
func (s ViewState) Criterion() Criterion {
	if c, ok := Get(s, KeyCriterion); ok && c != "" {
		return c
	}
	return CriterionTotal
}

// DarkMode reports the color scheme preference.
func (s ViewState) DarkMode() bool {
	d, _ := Get(s, KeyDarkMode)
	return d
}

// Comparisons returns the non-empty comparison slots in slot order.
func (s ViewState) Comparisons() []string {
	slots, _ := Get(s, KeyComparisons)
	return slices.DeleteFunc(slots, func(c string) bool { return c == "" })
}

// LineCountries returns the countries plotted in the year chart: the
// selected country first, then the comparisons. It is empty when nothing is
// selected.
func (s ViewState) LineCountries() []string {
	selected := s.SelectedCountry()
	if selected == "" {
		return nil
	}
	return append([]string{selected}, s.Comparisons()...)
}

// SelectCountry applies a click on country. Clicking the selected country
// again closes the drill-down; clicking another one selects it and drops it
// from the comparison slots. A country without medals is selected with the
// comparisons cleared, since there is no year chart to compare against.
func SelectCountry(s ViewState, country string, hasMedals bool) ViewState {
	if country == "" || country == s.SelectedCountry() {
		return ClearSelection(s)
	}

	next := With(s, KeySelectedCountry, country)
	if !hasMedals {
		return Without(next, KeyComparisons)
	}

	if slots, ok := Get(next, KeyComparisons); ok {
		for i, c := range slots {
			if c == country {
				slots[i] = ""
			}
		}
		next = With(next, KeyComparisons, slots)
	}
	return next
}

// ClearSelection closes the drill-down and resets the comparison pickers,
// as a click outside the globe does.
func ClearSelection(s ViewState) ViewState {
	return Without(Without(s, KeySelectedCountry), KeyComparisons)
}

// SetComparison fills comparison slot (0-based) with country; an empty
// country clears the slot. slots is the number of pickers available.
func SetComparison(s ViewState, slot, slots int, country string) (ViewState, error) {
	if s.SelectedCountry() == "" {
		return s, NewStateError(KeyComparisons.name, "SetComparison",
			fmt.Errorf("%w: no country selected", ErrInvalidState))
	}
	if slot < 0 || slot >= slots {
		return s, NewStateError(KeyComparisons.name, "SetComparison",
			fmt.Errorf("%w: slot %d out of range [0,%d)", ErrInvalidState, slot, slots))
	}
	if country != "" && country == s.SelectedCountry() {
		return s, NewStateError(KeyComparisons.name, "SetComparison",
			fmt.Errorf("%w: %q is already selected", ErrInvalidState, country))
	}

	current, _ := Get(s, KeyComparisons)
	next := make([]string, max(slots, len(current)))
	copy(next, current)
	next[slot] = country
	return With(s, KeyComparisons, next[:slots]), nil
}

// deepCopyValue copies slices, maps, and pointers so values stored in a
// ViewState cannot be mutated through a reference held by the caller.
func deepCopyValue(value any) any {
	if value == nil {
		return nil
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return value
		}
		newSlice := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			newSlice.Index(i).Set(reflect.ValueOf(deepCopyValue(v.Index(i).Interface())))
		}
		return newSlice.Interface()

	case reflect.Map:
		if v.IsNil() {
			return value
		}
		newMap := reflect.MakeMapWithSize(v.Type(), v.Len())
		for _, key := range v.MapKeys() {
			newMap.SetMapIndex(key, reflect.ValueOf(deepCopyValue(v.MapIndex(key).Interface())))
		}
		return newMap.Interface()

	case reflect.Ptr:
		if v.IsNil() {
			return value
		}
		newPtr := reflect.New(v.Elem().Type())
		newPtr.Elem().Set(reflect.ValueOf(deepCopyValue(v.Elem().Interface())))
		return newPtr.Interface()

	default:
		return value
	}
}
