package stage

import (
	"errors"
	"fmt"
	"os"

	"github.com/ohler55/ojg/oj"

	"github.com/letapeapp/race-engine-go/pkg/model"
)

var ErrStageNotFound = errors.New("stage not found")

// Catalog holds the available stage profiles in display order.
type Catalog struct {
	stages map[string]*model.StageProfile
	order  []string
}

// DefaultCatalog returns a catalog with the builtin stages.
func DefaultCatalog() *Catalog {
	c := &Catalog{stages: make(map[string]*model.StageProfile)}
	for _, s := range builtinStages() {
		c.put(s)
	}
	return c
}

func (c *Catalog) put(s *model.StageProfile) {
	if _, ok := c.stages[s.ID]; !ok {
		c.order = append(c.order, s.ID)
	}
	c.stages[s.ID] = s
}

// Lookup resolves a stage id. A race must not start without a
// resolvable stage, so callers treat the error as fatal for the race.
func (c *Catalog) Lookup(id string) (*model.StageProfile, error) {
	if s, ok := c.stages[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrStageNotFound, id)
}

// All returns the stages in display order.
func (c *Catalog) All() []*model.StageProfile {
	ret := make([]*model.StageProfile, 0, len(c.order))
	for _, id := range c.order {
		ret = append(ret, c.stages[id])
	}
	return ret
}

// LoadFile merges stages from a JSON file over the catalog.
// Existing ids are replaced, new ids appended.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var extra []*model.StageProfile
	if err := oj.Unmarshal(data, &extra); err != nil {
		return fmt.Errorf("parsing stage file %s: %w", path, err)
	}
	for _, s := range extra {
		if err := s.Validate(); err != nil {
			return err
		}
		c.put(s)
	}
	return nil
}
