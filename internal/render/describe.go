package render

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

type describer struct {
	opts     Options
	visiting map[visitKey]bool
	nodes    int
}

// Describe prepares v for printing. It never panics.
func Describe(v any, opts Options) (n *Node) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	d := &describer{opts: opts, visiting: make(map[visitKey]bool)}
	defer func() {
		if r := recover(); r != nil {
			n = panicMarker(r)
		}
	}()
	return d.describe(reflect.ValueOf(v), 0)
}

func (d *describer) describe(v reflect.Value, depth int) *Node {
	if !v.IsValid() {
		return scalar("nil")
	}
	if depth > d.opts.MaxDepth {
		return marker(MarkerMaxDepth)
	}
	if d.exhausted() {
		return marker(MarkerTruncated)
	}
	d.nodes++
	if n, ok := d.special(v, depth); ok {
		return n
	}

	switch v.Kind() {
	case reflect.Bool:
		return scalar(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalar(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return scalar(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32:
		return scalar(strconv.FormatFloat(v.Float(), 'g', -1, 32))
	case reflect.Float64:
		return scalar(strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case reflect.Complex64:
		return scalar(strconv.FormatComplex(v.Complex(), 'g', -1, 64))
	case reflect.Complex128:
		return scalar(strconv.FormatComplex(v.Complex(), 'g', -1, 128))
	case reflect.String:
		return scalar(d.quote(v.String()))
	case reflect.Interface:
		if v.IsNil() {
			return scalar("nil")
		}
		return d.describe(v.Elem(), depth)
	case reflect.Pointer:
		if v.IsNil() {
			return scalar("nil")
		}
		key := visitKey{ptr: v.Pointer(), typ: v.Type()}
		if d.visiting[key] {
			return marker(MarkerRecursion)
		}
		d.visiting[key] = true
		defer delete(d.visiting, key)
		return addressed(d.describe(v.Elem(), depth))
	case reflect.Slice:
		if v.IsNil() {
			return scalar("nil")
		}
		if v.Len() > 0 {
			key := visitKey{ptr: v.Pointer(), typ: v.Type()}
			if d.visiting[key] {
				return marker(MarkerRecursion)
			}
			d.visiting[key] = true
			defer delete(d.visiting, key)
		}
		return d.sequence(v, depth)
	case reflect.Array:
		return d.sequence(v, depth)
	case reflect.Map:
		if v.IsNil() {
			return scalar("nil")
		}
		key := visitKey{ptr: v.Pointer(), typ: v.Type()}
		if d.visiting[key] {
			return marker(MarkerRecursion)
		}
		d.visiting[key] = true
		defer delete(d.visiting, key)
		return d.mapping(v, depth)
	case reflect.Struct:
		return d.object(v, depth)
	case reflect.Func:
		if v.IsNil() {
			return scalar("nil")
		}
		return opaque(v.Type().String(), "")
	case reflect.Chan:
		if v.IsNil() {
			return scalar("nil")
		}
		return opaque(v.Type().String(), fmt.Sprintf("len=%d cap=%d", v.Len(), v.Cap()))
	case reflect.UnsafePointer:
		return opaque("unsafe.Pointer", fmt.Sprintf("0x%x", v.Pointer()))
	}
	return opaque(v.Type().String(), "")
}

// special handles Describer, error and fmt.Stringer values.
func (d *describer) special(v reflect.Value, depth int) (*Node, bool) {
	if !v.CanInterface() {
		return nil, false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil, false
		}
	case reflect.Invalid:
		return nil, false
	}

	iv := v.Interface()
	switch x := iv.(type) {
	case Describer:
		var desc any
		if r := guard(func() { desc = x.DescribeDebug() }); r != nil {
			return panicMarker(r), true
		}
		return d.describe(reflect.ValueOf(desc), depth+1), true
	case error:
		var text string
		if r := guard(func() { text = x.Error() }); r != nil {
			return panicMarker(r), true
		}
		return opaque(reflect.TypeOf(iv).String(), text), true
	case fmt.Stringer:
		var text string
		if r := guard(func() { text = x.String() }); r != nil {
			return panicMarker(r), true
		}
		return opaque(reflect.TypeOf(iv).String(), text), true
	}
	return nil, false
}

func (d *describer) sequence(v reflect.Value, depth int) *Node {
	n := &Node{Kind: KindSequence, Type: v.Type().String()}
	n.Entries = make([]Entry, 0, v.Len())
	for i := range v.Len() {
		if d.exhausted() {
			n.Entries = append(n.Entries, truncated())
			break
		}
		n.Entries = append(n.Entries, Entry{
			Key:   strconv.Itoa(i),
			Value: d.describe(v.Index(i), depth+1),
		})
	}
	return n
}

func (d *describer) mapping(v reflect.Value, depth int) *Node {
	keys := v.MapKeys()
	texts := make([]string, len(keys))
	for i, k := range keys {
		texts[i] = d.keyText(k)
	}
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return keyLess(keys[order[a]], keys[order[b]], texts[order[a]], texts[order[b]])
	})

	n := &Node{Kind: KindMapping, Type: v.Type().String()}
	n.Entries = make([]Entry, 0, len(keys))
	for _, i := range order {
		if d.exhausted() {
			n.Entries = append(n.Entries, truncated())
			break
		}
		n.Entries = append(n.Entries, Entry{
			Key:   texts[i],
			Value: d.describe(v.MapIndex(keys[i]), depth+1),
		})
	}
	return n
}

func (d *describer) object(v reflect.Value, depth int) *Node {
	t := v.Type()
	n := &Node{Kind: KindObject, Type: t.String()}
	n.Entries = make([]Entry, 0, t.NumField())
	for i := range t.NumField() {
		if d.exhausted() {
			n.Entries = append(n.Entries, truncated())
			break
		}
		f := t.Field(i)
		key := f.Name
		if !f.IsExported() {
			key += ":unexported"
		}
		n.Entries = append(n.Entries, Entry{
			Key:   key,
			Value: d.describe(v.Field(i), depth+1),
		})
	}
	return n
}

// keyText renders a map key for the [key] marker. String keys are shown
// unquoted, like print_r does.
func (d *describer) keyText(k reflect.Value) string {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		s := norm.NFC.String(k.String())
		if s == "" {
			return `""`
		}
		return lineBreaks.Replace(s)
	}
	return compact(d.describe(k, d.opts.MaxDepth))
}

func keyLess(a, b reflect.Value, at, bt string) bool {
	for a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	for b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}
	if a.Kind() == b.Kind() {
		switch a.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return a.Int() < b.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return a.Uint() < b.Uint()
		case reflect.Float32, reflect.Float64:
			return a.Float() < b.Float()
		}
	}
	return at < bt
}

func (d *describer) quote(s string) string {
	s = norm.NFC.String(s)
	if w := d.opts.MaxStringWidth; w > 0 && runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	return strconv.Quote(s)
}

func scalar(text string) *Node { return &Node{Kind: KindScalar, Text: text} }

func marker(text string) *Node { return &Node{Kind: KindMarker, Text: text} }

func opaque(typ, text string) *Node {
	return &Node{Kind: KindOpaque, Type: typ, Text: lineBreaks.Replace(text)}
}

// lineBreaks keeps user text on one printed line.
var lineBreaks = strings.NewReplacer("\r\n", `\r\n`, "\n", `\n`, "\r", `\r`)

func (d *describer) exhausted() bool { return d.nodes >= d.opts.MaxNodes }

func truncated() Entry { return Entry{Key: "...", Value: marker(MarkerTruncated)} }

func addressed(n *Node) *Node {
	switch n.Kind {
	case KindSequence, KindMapping, KindObject, KindOpaque:
		n.Type = "&" + n.Type
	case KindScalar:
		n.Text = "&" + n.Text
	}
	return n
}

func panicMarker(r any) *Node {
	msg := "?"
	guard(func() { msg = fmt.Sprint(r) })
	return marker("*PANIC: " + lineBreaks.Replace(msg) + "*")
}

// guard runs fn and returns the recovered panic value, if any.
func guard(fn func()) (recovered any) {
	defer func() {
		recovered = recover()
	}()
	fn()
	return nil
}

// Display returns the one-line text of a non-container node.
func Display(n *Node) string {
	if n == nil {
		return "nil"
	}
	switch n.Kind {
	case KindOpaque:
		if n.Text == "" {
			return n.Type
		}
		return n.Type + "(" + n.Text + ")"
	case KindSequence, KindMapping, KindObject:
		return compact(n)
	}
	return n.Text
}

func compact(n *Node) string {
	if !n.Container() {
		return Display(n)
	}
	parts := make([]string, 0, len(n.Entries))
	for _, e := range n.Entries {
		parts = append(parts, e.Key+":"+compact(e.Value))
	}
	return n.Type + "{" + strings.Join(parts, ", ") + "}"
}
