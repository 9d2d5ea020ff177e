/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package scenario

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"dirpx.dev/dxview/dxcore/collection"
	"dirpx.dev/dxview/dxcore/model/change"
)

// pipeline is the set of live views built from a document over one source.
type pipeline struct {
	source    *collection.List[string]
	views     map[string]collection.Collection[string]
	expanders map[string]*collection.Expander[string]
	closers   []func()
}

// build creates the views of doc over a new list holding items. expanded
// gives the initial state of every item with children.
func build(doc *Document, items []string, expanded map[string]bool, log *slog.Logger) (*pipeline, error) {
	p := &pipeline{
		source:    collection.NewList(items...),
		views:     map[string]collection.Collection[string]{},
		expanders: map[string]*collection.Expander[string]{},
	}
	p.views[SourceName] = p.source

	for name, children := range doc.Children {
		e := collection.NewExpander[string](collection.NewList(children...))
		e.SetExpanded(expanded[name])
		p.expanders[name] = e
	}

	for _, s := range doc.Stages {
		view, err := p.stage(s, log)
		if err != nil {
			p.close()
			return nil, fmt.Errorf("stage %s: %w", s.Name, err)
		}
		p.views[s.Name] = view
	}
	return p, nil
}

func (p *pipeline) stage(s Stage, log *slog.Logger) (collection.Collection[string], error) {
	src := p.views[s.Upstream()]
	opts := []collection.Option{collection.WithLogger(log), collection.WithName(s.Name)}

	switch s.Kind {
	case KindFilter:
		v, err := collection.NewFiltered(src, func(item string) bool { return strings.Contains(item, s.Contains) }, opts...)
		return track(p, v, err)

	case KindSort:
		cmp := strings.Compare
		if s.Descending {
			cmp = func(a, b string) int { return strings.Compare(b, a) }
		}
		v, err := collection.NewSorted(src, cmp, opts...)
		return track(p, v, err)

	case KindSet:
		key, err := keyFunc(s.Key)
		if err != nil {
			return nil, err
		}
		v, err := collection.NewSetFunc(src, key, opts...)
		return track(p, v, err)

	case KindConvert:
		v, err := collection.NewConverter(src, func(item string) string { return fmt.Sprintf(s.Format, item) }, opts...)
		return track(p, v, err)

	case KindSeparate:
		v, err := collection.NewSeparator(src, s.Separator, opts...)
		return track(p, v, err)

	case KindConcat:
		sources := []collection.Collection[string]{src}
		for _, name := range s.With {
			sources = append(sources, p.views[name])
		}
		v, err := collection.NewConcatenated(sources, opts...)
		return track(p, v, err)

	case KindGroup:
		key, err := keyFunc(s.Key)
		if err != nil {
			return nil, err
		}
		groups, err := collection.NewGrouped(src, key, opts...)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, groups.Close)
		// Groups are shown as "key(count)". Tracking the groups turns a count
		// change into a Replace of the group's label.
		tracked, err := collection.NewAdapter[*group](viewFeed[*group]{groups}, opts...)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, tracked.Close)
		tracked.TrackItems(func(g *group) collection.PropertyNotifier { return g })
		labels, err := collection.NewConverter(tracked, (*group).String, opts...)
		return track(p, labels, err)

	case KindExpand:
		v, err := collection.NewExtendable(src, func(item string) collection.Expandable[string] {
			if e, ok := p.expanders[item]; ok {
				return e
			}
			return nil
		}, opts...)
		return track(p, v, err)

	default:
		return nil, s.Kind.Validate()
	}
}

type group = collection.Group[string, string]

// viewFeed reads a collection through the Feed interface.
type viewFeed[T any] struct {
	c collection.Collection[T]
}

func (f viewFeed[T]) Snapshot() []T { return collection.Items(f.c) }

func (f viewFeed[T]) Observe(fn func(change.Change[T])) (stop func()) {
	return collection.Watch(f.c, fn)
}

type closer interface {
	collection.Collection[string]
	Close()
}

func track[V closer](p *pipeline, v V, err error) (collection.Collection[string], error) {
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, v.Close)
	return v, nil
}

func (p *pipeline) close() {
	for _, c := range slices.Backward(p.closers) {
		c()
	}
	p.closers = nil
}
