package workload

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/cachesim/cachesim/sim"
)

// generateScript runs a Lua chunk that must define key(step, key_space)
// and calls it once per step (1-based). A string return is used verbatim;
// a numeric return n becomes item-<n>. Anything else fails the workload.
func generateScript(spec Spec) ([]sim.Key, error) {
	source := spec.Script
	if source == "" {
		data, err := os.ReadFile(spec.ScriptFile)
		if err != nil {
			return nil, fmt.Errorf("reading workload script: %w", err)
		}
		source = string(data)
	}

	L := lua.NewState()
	defer L.Close()
	if err := L.DoString(source); err != nil {
		return nil, fmt.Errorf("%w: lua: %v", sim.ErrInvalidWorkload, err)
	}
	fn, ok := L.GetGlobal("key").(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("%w: lua script must define key(step, key_space)", sim.ErrInvalidWorkload)
	}

	keys := make([]sim.Key, 0, spec.Size)
	for step := 1; step <= spec.Size; step++ {
		err := L.CallByParam(
			lua.P{Fn: fn, NRet: 1, Protect: true},
			lua.LNumber(step), lua.LNumber(spec.KeySpace),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: lua: step %d: %v", sim.ErrInvalidWorkload, step, err)
		}
		ret := L.Get(-1)
		L.Pop(1)
		switch v := ret.(type) {
		case lua.LString:
			if v == "" {
				return nil, fmt.Errorf("%w: lua: step %d returned an empty key", sim.ErrInvalidWorkload, step)
			}
			keys = append(keys, sim.Key(v))
		case lua.LNumber:
			keys = append(keys, keyName(int(v)))
		default:
			return nil, fmt.Errorf("%w: lua: step %d returned %s, want string or number", sim.ErrInvalidWorkload, step, ret.Type())
		}
	}
	return keys, nil
}
