package wizard

import (
	"fmt"

	"github.com/petrijr/stepform/pkg/api"
)

// Bucket is the namespaced accumulator of submitted field data plus the
// persisted step pointer, backed by an api.Store.
//
// Two keys exist per namespace: the field map under the namespace itself,
// and the step pointer under "<namespace>.form_step". Both are flushed by
// a single Save, which is as atomic as the store contract allows.
//
// The bucket is the only code path that writes wizard state: Merge is
// additive, Replace is a wholesale swap, and the advance operations move
// the step pointer.
type Bucket struct {
	store     api.Store
	namespace string

	loaded bool
	fields map[string]any
	step   int
}

// NewBucket creates a bucket over store, scoped to namespace.
func NewBucket(store api.Store, namespace string) *Bucket {
	return &Bucket{
		store:     store,
		namespace: namespace,
	}
}

func (b *Bucket) stepKey() string {
	return b.namespace + "." + api.StepField
}

// load reads the bucket once per request. Absent keys mean an empty
// bucket with an unset (0) step pointer.
func (b *Bucket) load() error {
	if b.loaded {
		return nil
	}

	raw, err := b.store.Get(b.namespace, map[string]any{})
	if err != nil {
		return err
	}
	stored, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("session key %q holds %T, expected a field map", b.namespace, raw)
	}

	// Own a copy so bucket mutations never alias store internals.
	b.fields = make(map[string]any, len(stored))
	for k, v := range stored {
		b.fields[k] = v
	}

	rawStep, err := b.store.Get(b.stepKey(), 0)
	if err != nil {
		return err
	}
	if n, ok := asInt(rawStep); ok {
		b.step = n
	}

	b.loaded = true
	return nil
}

// Fields returns the accumulated field map.
func (b *Bucket) Fields() (map[string]any, error) {
	if err := b.load(); err != nil {
		return nil, err
	}
	return b.fields, nil
}

// Step returns the persisted step pointer; 0 means unset (fresh bucket or
// reset sentinel).
func (b *Bucket) Step() (int, error) {
	if err := b.load(); err != nil {
		return 0, err
	}
	return b.step, nil
}

// Merge shallow-merges fields into the bucket and stamps step as the
// bucket's step pointer, then persists the bucket as a unit. Keys in
// fields overwrite existing keys; all other keys are retained.
func (b *Bucket) Merge(fields map[string]any, step int) error {
	if err := b.load(); err != nil {
		return err
	}

	for k, v := range fields {
		b.fields[k] = v
	}
	b.step = step

	return b.persist()
}

// Replace swaps the entire bucket for data, discarding accumulated fields
// and clearing the step pointer to the reset sentinel, and persists
// immediately.
func (b *Bucket) Replace(data map[string]any) error {
	b.fields = make(map[string]any, len(data))
	for k, v := range data {
		b.fields[k] = v
	}
	b.step = 0
	b.loaded = true

	return b.persist()
}

// SetStep persists step as the new step pointer without touching fields.
func (b *Bucket) SetStep(step int) error {
	if err := b.load(); err != nil {
		return err
	}
	b.step = step

	if err := b.store.Put(b.stepKey(), step); err != nil {
		return err
	}
	return b.store.Save()
}

// IncrementStep bumps the persisted step pointer by one via the store's
// increment primitive.
func (b *Bucket) IncrementStep() error {
	if err := b.load(); err != nil {
		return err
	}
	b.step++

	if err := b.store.Increment(b.stepKey()); err != nil {
		return err
	}
	return b.store.Save()
}

func (b *Bucket) persist() error {
	// Hand the store its own copy; the bucket keeps mutating b.fields.
	snapshot := make(map[string]any, len(b.fields))
	for k, v := range b.fields {
		snapshot[k] = v
	}

	if err := b.store.Put(b.namespace, snapshot); err != nil {
		return err
	}
	if err := b.store.Put(b.stepKey(), b.step); err != nil {
		return err
	}
	return b.store.Save()
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
