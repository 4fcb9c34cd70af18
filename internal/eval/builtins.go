package eval

import (
	"fmt"

	"github.com/tsuberim/lang/internal/types"
)

// Builtins returns the standard value environment together with the typing
// environment the inferencer sees for it. The two tables must stay in sync:
// every name bound here carries the scheme the standard environment ships.
func (ev *Evaluator) Builtins() (*Environment, *types.TypeEnv) {
	env := NewEnvironment()
	tenv := types.NewTypeEnv()

	bind := func(name string, arity int, sc *types.Scheme, fn func([]Value) (Value, error)) {
		env.Set(name, &BuiltinValue{Name: name, Arity: arity, Fn: fn})
		tenv.Define(name, sc)
	}

	t := &types.TVar{Name: "t"}
	k := &types.TVar{Name: "k"}
	e := &types.TVar{Name: "e"}

	numBinOp := types.MonoScheme(types.NewFunc([]types.Type{types.TNum, types.TNum}, types.TNum))

	bind("+", 2, numBinOp, func(args []Value) (Value, error) {
		a, b, err := twoNums("+", args)
		if err != nil {
			return nil, err
		}
		return &NumValue{Value: a + b}, nil
	})

	bind("*", 2, numBinOp, func(args []Value) (Value, error) {
		a, b, err := twoNums("*", args)
		if err != nil {
			return nil, err
		}
		return &NumValue{Value: a * b}, nil
	})

	bind("^", 2, types.MonoScheme(types.NewFunc([]types.Type{types.TStr, types.TStr}, types.TStr)),
		func(args []Value) (Value, error) {
			a, ok1 := args[0].(*StrValue)
			b, ok2 := args[1].(*StrValue)
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("^ expects strings, got %s and %s", args[0].Kind(), args[1].Kind())
			}
			return &StrValue{Value: a.Value + b.Value}, nil
		})

	bind("++", 2, &types.Scheme{
		TypeVars: []string{"t"},
		Type:     types.NewFunc([]types.Type{types.NewList(t), types.NewList(t)}, types.NewList(t)),
	}, func(args []Value) (Value, error) {
		a, ok1 := args[0].(*ListValue)
		b, ok2 := args[1].(*ListValue)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("++ expects lists, got %s and %s", args[0].Kind(), args[1].Kind())
		}
		items := make([]Value, 0, len(a.Items)+len(b.Items))
		items = append(items, a.Items...)
		items = append(items, b.Items...)
		return &ListValue{Items: items}, nil
	})

	// eq returns the closed variant [True, False]; the row witness is
	// quantified so every use gets its own tail.
	boolRow := &types.TRow{
		Union: true,
		Items: map[string]types.Type{"True": types.TUnit, "False": types.TUnit},
		Rest:  &types.TVar{Name: "b"},
	}
	bind("eq", 2, &types.Scheme{
		TypeVars: []string{"t", "b"},
		Type:     types.NewFunc([]types.Type{t, t}, boolRow),
	}, func(args []Value) (Value, error) {
		if Equal(args[0], args[1]) {
			return &TaggedValue{Name: "True", Payload: Unit}, nil
		}
		return &TaggedValue{Name: "False", Payload: Unit}, nil
	})

	bind("fold", 3, &types.Scheme{
		TypeVars: []string{"t", "k"},
		Type: types.NewFunc([]types.Type{
			types.NewList(t),
			types.NewFunc([]types.Type{t, t}, k),
			t,
		}, types.NewList(k)),
	}, func(args []Value) (Value, error) {
		list, ok := args[0].(*ListValue)
		if !ok {
			return nil, fmt.Errorf("fold expects a list, got %s", args[0].Kind())
		}
		acc := args[2]
		out := make([]Value, 0, len(list.Items))
		for _, item := range list.Items {
			v, err := ev.Call(args[1], []Value{acc, item})
			if err != nil {
				return nil, err
			}
			out = append(out, v)
			acc = item
		}
		return &ListValue{Items: out}, nil
	})

	bind("map", 2, &types.Scheme{
		TypeVars: []string{"t", "k"},
		Type: types.NewFunc([]types.Type{
			types.NewList(t),
			types.NewFunc([]types.Type{t}, k),
		}, types.NewList(k)),
	}, func(args []Value) (Value, error) {
		list, ok := args[0].(*ListValue)
		if !ok {
			return nil, fmt.Errorf("map expects a list, got %s", args[0].Kind())
		}
		out := make([]Value, len(list.Items))
		for i, item := range list.Items {
			v, err := ev.Call(args[1], []Value{item})
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return &ListValue{Items: out}, nil
	})

	// &> sequences tasks without running them; the composite runs only
	// when the host drives it.
	bind("&>", 2, &types.Scheme{
		TypeVars: []string{"t", "e", "k"},
		Type: types.NewFunc([]types.Type{
			types.NewTask(t, e),
			types.NewFunc([]types.Type{t}, types.NewTask(k, e)),
		}, types.NewTask(k, e)),
	}, func(args []Value) (Value, error) {
		task, ok := args[0].(*TaskValue)
		if !ok {
			return nil, fmt.Errorf("&> expects a task, got %s", args[0].Kind())
		}
		next := args[1]
		return &TaskValue{Run: func() (Value, error) {
			v, err := task.Run()
			if err != nil {
				return nil, err
			}
			cont, err := ev.Call(next, []Value{v})
			if err != nil {
				return nil, err
			}
			contTask, ok := cont.(*TaskValue)
			if !ok {
				return nil, fmt.Errorf("&> continuation returned %s, not a task", cont.Kind())
			}
			return contTask.Run()
		}}, nil
	})

	bind("print", 1, &types.Scheme{
		TypeVars: []string{"e"},
		Type:     types.NewFunc([]types.Type{types.TStr}, types.NewTask(types.TUnit, e)),
	}, func(args []Value) (Value, error) {
		s, ok := args[0].(*StrValue)
		if !ok {
			return nil, fmt.Errorf("print expects a string, got %s", args[0].Kind())
		}
		return &TaskValue{Run: func() (Value, error) {
			fmt.Fprintln(ev.out, s.Value)
			return Unit, nil
		}}, nil
	})

	bind("show", 1, &types.Scheme{
		TypeVars: []string{"t"},
		Type:     types.NewFunc([]types.Type{t}, types.TStr),
	}, func(args []Value) (Value, error) {
		return &StrValue{Value: args[0].String()}, nil
	})

	return env, tenv
}

func twoNums(op string, args []Value) (float64, float64, error) {
	a, ok1 := args[0].(*NumValue)
	b, ok2 := args[1].(*NumValue)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("%s expects numbers, got %s and %s", op, args[0].Kind(), args[1].Kind())
	}
	return a.Value, b.Value, nil
}
