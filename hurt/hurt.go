// Package hurt provides a damage modifier driven by an arithmetic expression.
//
// A Component is attached to a ranged.Session and applied to every hit the
// player takes:
//
//	ranged.Attach(sess, hurt.New("damage * 0.5 + 1"))
//
// The expression is evaluated in a sandboxed Lua state with the globals damage,
// health, max_health and source. Any parse or evaluation failure is logged once
// and the damage passes through unchanged.
package hurt

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// Env is the state of the hurt entity at the time of the hit.
type Env struct {
	Health    float64
	MaxHealth float64
	// Source names the damage source, e.g. "projectile".
	Source string
}

// Component modifies incoming damage with an expression.
//
// Concurrency:
// Apply is safe for concurrent use. Each evaluation borrows a Lua state from a pool.
type Component struct {
	expr  string
	proto *lua.FunctionProto
	err   error

	limit  int
	log    *slog.Logger
	warned atomic.Bool

	states sync.Pool
}

// Option configures a Component.
type Option func(*Component)

// WithLogger sets the logger the failure warning is written to.
// Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *Component) {
		c.log = log
	}
}

// WithInstructionLimit sets the maximum number of Lua opcodes per evaluation.
func WithInstructionLimit(n int) Option {
	return func(c *Component) {
		c.limit = n
	}
}

// New compiles expr into a Component. New never fails: a Component whose
// expression does not compile leaves damage unchanged, see Err.
func New(expr string, opts ...Option) *Component {
	c := &Component{expr: expr, limit: DefaultInstructionLimit}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.limit <= 0 {
		c.limit = DefaultInstructionLimit
	}
	c.states.New = func() any { return newState() }
	c.proto, c.err = compile(expr)
	return c
}

// compile parses expr as a single Lua expression.
func compile(expr string) (*lua.FunctionProto, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("empty expression")
	}
	chunk, err := parse.Parse(strings.NewReader("return ("+expr+")"), "hurt")
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", expr, err)
	}
	proto, err := lua.Compile(chunk, "hurt")
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	return proto, nil
}

// Expression returns the source expression.
func (c *Component) Expression() string {
	return c.expr
}

// Err returns the compile error of the expression, if any.
func (c *Component) Err() error {
	return c.err
}

// Apply returns the modified damage of a hit. On failure it returns damage
// unchanged. Negative results are clamped to 0.
func (c *Component) Apply(damage float64, env Env) float64 {
	v, err := c.Eval(damage, env)
	if err != nil {
		if !c.warned.Swap(true) {
			c.log.Warn("hurt: expression failed, damage left unchanged", "expr", c.expr, "err", err)
		}
		return damage
	}
	return max(v, 0)
}

// Eval evaluates the expression for a hit and returns its raw result.
func (c *Component) Eval(damage float64, env Env) (float64, error) {
	if c.err != nil {
		return 0, c.err
	}
	L := c.states.Get().(*lua.LState)

	ctx, cancel := newCountingContext(c.limit)
	L.SetContext(ctx)
	L.SetGlobal("damage", lua.LNumber(damage))
	L.SetGlobal("health", lua.LNumber(env.Health))
	L.SetGlobal("max_health", lua.LNumber(env.MaxHealth))
	L.SetGlobal("source", lua.LString(env.Source))

	L.Push(L.NewFunctionFromProto(c.proto))
	err := L.PCall(0, 1, nil)
	cancel()
	if err != nil {
		// The state may be left mid-call; do not reuse it.
		L.Close()
		return 0, fmt.Errorf("evaluate %q: %w", c.expr, err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	L.RemoveContext()
	c.states.Put(L)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("evaluate %q: result is %s, not a number", c.expr, ret.Type())
	}
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("evaluate %q: result is not finite", c.expr)
	}
	return v, nil
}
