package affection

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ──────────────────────────────────────────────
// Lua rule tables — data-driven overrides
// ──────────────────────────────────────────────
//
// Deployments can replace the built-in rules with a Lua file that
// returns the table shape of RuleTable:
//
//	return {
//	  by_tier = {
//	    zero = {
//	      { name = "greeting", needs = {{"hi", "hello"}},
//	        category = "positive", min_delta = 1, max_delta = 2 },
//	    },
//	  },
//	  fallback = { ... },
//	}
//
// The loaded table goes through the same validation as a Go-defined one.

// LoadRuleTableLua loads and validates a rule table from a Lua file.
func LoadRuleTableLua(path string) (RuleTable, error) {
	L := lua.NewState()
	defer L.Close()
	if err := L.DoFile(path); err != nil {
		return RuleTable{}, fmt.Errorf("run rules script: %w", err)
	}
	return ruleTableFromLua(L)
}

// LoadRuleTableLuaScript is LoadRuleTableLua for an in-memory script.
func LoadRuleTableLuaScript(script string) (RuleTable, error) {
	L := lua.NewState()
	defer L.Close()
	if err := L.DoString(script); err != nil {
		return RuleTable{}, fmt.Errorf("run rules script: %w", err)
	}
	return ruleTableFromLua(L)
}

func ruleTableFromLua(L *lua.LState) (RuleTable, error) {
	top, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return RuleTable{}, fmt.Errorf("rules script must return a table")
	}

	table := RuleTable{ByTier: make(map[string][]Rule)}

	if byTier, ok := top.RawGetString("by_tier").(*lua.LTable); ok {
		var convErr error
		byTier.ForEach(func(k, v lua.LValue) {
			if convErr != nil {
				return
			}
			tierName := lua.LVAsString(k)
			rulesTbl, ok := v.(*lua.LTable)
			if !ok {
				convErr = fmt.Errorf("by_tier.%s must be a list of rules", tierName)
				return
			}
			rules, err := luaRuleList(rulesTbl, "by_tier."+tierName)
			if err != nil {
				convErr = err
				return
			}
			table.ByTier[tierName] = rules
		})
		if convErr != nil {
			return RuleTable{}, convErr
		}
	}

	if fallback, ok := top.RawGetString("fallback").(*lua.LTable); ok {
		rules, err := luaRuleList(fallback, "fallback")
		if err != nil {
			return RuleTable{}, err
		}
		table.Fallback = rules
	}

	if err := table.Validate(); err != nil {
		return RuleTable{}, fmt.Errorf("lua rule table: %w", err)
	}
	return table, nil
}

// luaRuleList converts an ordered Lua array of rule tables, preserving
// rule order (first match wins, so order matters).
func luaRuleList(tbl *lua.LTable, where string) ([]Rule, error) {
	rules := make([]Rule, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		ruleTbl, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a table", where, i)
		}
		rule, err := luaRule(ruleTbl, fmt.Sprintf("%s[%d]", where, i))
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func luaRule(tbl *lua.LTable, where string) (Rule, error) {
	rule := Rule{
		Name:     lua.LVAsString(tbl.RawGetString("name")),
		Category: Category(lua.LVAsString(tbl.RawGetString("category"))),
		MinDelta: int(lua.LVAsNumber(tbl.RawGetString("min_delta"))),
		MaxDelta: int(lua.LVAsNumber(tbl.RawGetString("max_delta"))),
	}

	needsTbl, ok := tbl.RawGetString("needs").(*lua.LTable)
	if !ok {
		return Rule{}, fmt.Errorf("%s: needs must be a list of keyword groups", where)
	}
	for i := 1; i <= needsTbl.Len(); i++ {
		groupTbl, ok := needsTbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return Rule{}, fmt.Errorf("%s: needs[%d] must be a list of keywords", where, i)
		}
		group := make([]string, 0, groupTbl.Len())
		for j := 1; j <= groupTbl.Len(); j++ {
			group = append(group, lua.LVAsString(groupTbl.RawGetInt(j)))
		}
		rule.Needs = append(rule.Needs, group)
	}
	return rule, nil
}
