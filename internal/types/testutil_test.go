package types

import (
	"fmt"
	"sort"
)

// alphaRename rewrites every variable in t to a canonical name assigned in
// deterministic walk order, so two types can be compared up to renaming.
func alphaRename(t Type) Type {
	names := make(map[string]string)
	counter := 0
	canon := func(old string) string {
		if n, ok := names[old]; ok {
			return n
		}
		n := fmt.Sprintf("a%d", counter)
		counter++
		names[old] = n
		return n
	}

	var rename func(Type) Type
	rename = func(t Type) Type {
		switch t := t.(type) {
		case *TVar:
			return &TVar{Name: canon(t.Name)}
		case *TCon:
			args := make([]Type, len(t.Args))
			for i, a := range t.Args {
				args[i] = rename(a)
			}
			return &TCon{Name: t.Name, Args: args}
		case *TRow:
			keys := make([]string, 0, len(t.Items))
			for k := range t.Items {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			items := make(map[string]Type, len(keys))
			for _, k := range keys {
				items[k] = rename(t.Items[k])
			}
			return &TRow{
				Union: t.Union,
				Open:  t.Open,
				Items: items,
				Rest:  &TVar{Name: canon(t.Rest.Name)},
			}
		}
		return t
	}
	return rename(t)
}

func tvar(name string) *TVar { return &TVar{Name: name} }

func openRec(items map[string]Type, rest string) *TRow {
	return &TRow{Open: true, Items: items, Rest: tvar(rest)}
}

func closedRec(items map[string]Type, rest string) *TRow {
	return &TRow{Open: false, Items: items, Rest: tvar(rest)}
}

func openUnion(items map[string]Type, rest string) *TRow {
	return &TRow{Union: true, Open: true, Items: items, Rest: tvar(rest)}
}

func closedUnion(items map[string]Type, rest string) *TRow {
	return &TRow{Union: true, Open: false, Items: items, Rest: tvar(rest)}
}
