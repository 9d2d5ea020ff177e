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

package collection

// Property names a settable parameter or observable attribute.
type Property string

// Properties signalled by this package. Views signal the parameter they
// rebound; Expander and Group signal their own state. Element types may
// define their own.
const (
	PropertySource    Property = "Source"
	PropertySources   Property = "Sources"
	PropertyFilter    Property = "Filter"
	PropertyComparer  Property = "Comparer"
	PropertyConverter Property = "Converter"
	PropertySeparator Property = "Separator"
	PropertyKey       Property = "Key"
	PropertyExpanded  Property = "Expanded"
	PropertyChildren  Property = "Children"
	PropertyCount     Property = "Count"
	PropertyValue     Property = "Value"
)

func (p Property) String() string {
	return string(p)
}

// PropertyObserver receives property-changed signals.
type PropertyObserver interface {
	PropertyChanged(p Property)
}

// PropertyNotifier is implemented by values that signal property changes.
// Subscription semantics match Collection.
type PropertyNotifier interface {
	SubscribeProperty(o PropertyObserver)
	UnsubscribeProperty(o PropertyObserver)
}

// Properties implements PropertyNotifier. Embed it, or keep it as a field
// and forward to it. The zero value is ready to use.
type Properties struct {
	subs subscribers[PropertyObserver]
}

// SubscribeProperty registers o.
func (p *Properties) SubscribeProperty(o PropertyObserver) {
	p.subs.add(o)
}

// UnsubscribeProperty removes o.
func (p *Properties) UnsubscribeProperty(o PropertyObserver) {
	p.subs.remove(o)
}

// NotifyProperty signals prop to every observer.
func (p *Properties) NotifyProperty(prop Property) {
	p.subs.each(func(o PropertyObserver) { o.PropertyChanged(prop) })
}

// PropertyObservers returns the number of registered observers.
func (p *Properties) PropertyObservers() int {
	return len(p.subs.list)
}

type propertyFunc struct {
	fn func(Property)
}

func (o *propertyFunc) PropertyChanged(p Property) {
	o.fn(p)
}

// WatchProperty subscribes fn to n and returns a function that cancels the
// subscription.
func WatchProperty(n PropertyNotifier, fn func(Property)) (cancel func()) {
	o := &propertyFunc{fn: fn}
	n.SubscribeProperty(o)
	return func() { n.UnsubscribeProperty(o) }
}
