package window

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/gridcal/gridcal/pkg/storage"
	log "github.com/sirupsen/logrus"
)

// Namespace derives the persistence namespace from the sorted set of
// configured source ids and the anchor policy. Changing the calendar set
// or the policy therefore never reuses an unrelated saved offset.
func Namespace(sourceIDs []string, policy Policy) string {
	ids := append([]string(nil), sourceIDs...)
	sort.Strings(ids)
	seed := fmt.Sprintf("%v|startToday=%t|firstDay=%d", ids, policy.StartToday, policy.normalizedFirstDay())

	// djb2-xor, kept compatible with the usual 32-bit base36 rendering.
	h := uint32(5381)
	for i := 0; i < len(seed); i++ {
		h = (h * 33) ^ uint32(seed[i])
	}
	return "gridcal." + strconv.FormatUint(uint64(h), 36)
}

// OffsetStore persists week offset, scroll position, and per-source
// visibility under one namespace.
type OffsetStore struct {
	store     storage.Store
	namespace string
}

func NewOffsetStore(store storage.Store, namespace string) *OffsetStore {
	return &OffsetStore{store: store, namespace: namespace}
}

func (s *OffsetStore) key(suffix string) string {
	return s.namespace + "." + suffix
}

// LoadOffset returns the persisted week offset, or 0 when the value is
// missing, unparsable, or the store fails.
func (s *OffsetStore) LoadOffset() int {
	raw, ok, err := s.store.Get(s.key("weekOffset"))
	if err != nil {
		log.Warnf("failed to load week offset: %v", err)
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Debugf("ignoring unparsable week offset %q", raw)
		return 0
	}
	return n
}

func (s *OffsetStore) SaveOffset(offset int) error {
	if err := s.store.Set(s.key("weekOffset"), strconv.Itoa(offset)); err != nil {
		return fmt.Errorf("failed to save week offset: %w", err)
	}
	return nil
}

// LoadScrollTop returns the persisted scroll position, or fallback when
// absent or unparsable.
func (s *OffsetStore) LoadScrollTop(fallback float64) float64 {
	raw, ok, err := s.store.Get(s.key("scrollTop"))
	if err != nil || !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func (s *OffsetStore) SaveScrollTop(top float64) error {
	if err := s.store.Set(s.key("scrollTop"), strconv.FormatFloat(top, 'f', -1, 64)); err != nil {
		return fmt.Errorf("failed to save scroll position: %w", err)
	}
	return nil
}

// Visibility returns the persisted per-source visibility map. Sources
// absent from the map are visible.
func (s *OffsetStore) Visibility() map[string]bool {
	raw, ok, err := s.store.Get(s.key("visibility"))
	if err != nil || !ok {
		return map[string]bool{}
	}
	var m map[string]bool
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		log.Debugf("ignoring unparsable visibility map: %v", err)
		return map[string]bool{}
	}
	return m
}

func (s *OffsetStore) SetVisible(sourceID string, visible bool) error {
	m := s.Visibility()
	m[sourceID] = visible
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal visibility map: %w", err)
	}
	if err := s.store.Set(s.key("visibility"), string(raw)); err != nil {
		return fmt.Errorf("failed to save visibility map: %w", err)
	}
	return nil
}

// IsVisible reports whether a source should contribute events.
func (s *OffsetStore) IsVisible(sourceID string) bool {
	v, ok := s.Visibility()[sourceID]
	if !ok {
		return true
	}
	return v
}
