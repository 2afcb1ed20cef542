package crafting

import (
	"github.com/showmtmn-cloud/richgo/internal/affix"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
)

// Options tune EvaluateAll.
type Options struct {
	// Resolver defaults to affix.Direct.
	Resolver affix.Resolver
	// Methods restricts the variants tried; nil means all of Methods.
	Methods []Method

	RerollPrefixSlots int
	RerollSuffixSlots int
}

// EvaluateAll prices every method for r. Method failures are returned as
// values, never as the error. The error is set only when the recipe itself
// is invalid or its pools cannot be resolved.
func EvaluateAll(r Recipe, c *affix.Catalog, costs ActionCosts, opts Options) ([]Result, []MethodFailure, error) {
	if err := r.Validate(); err != nil {
		return nil, nil, err
	}
	in, err := Prepare(r, c, costs, opts)
	if err != nil {
		return nil, nil, err
	}
	results, failures := Evaluate(in, opts.Methods)
	return results, failures, nil
}

// Evaluate prices methods against prepared pools; nil means all of Methods.
func Evaluate(in Input, methods []Method) ([]Result, []MethodFailure) {
	if len(methods) == 0 {
		methods = Methods
	}
	var results []Result
	var failures []MethodFailure
	for _, m := range methods {
		eval, ok := evaluators[m]
		if !ok {
			failures = append(failures, MethodFailure{Method: m, Code: crafterr.CodeInvalidArgument, Message: "unknown method"})
			continue
		}
		res, err := eval(in)
		if err != nil {
			failures = append(failures, MethodFailure{Method: m, Code: crafterr.GetCode(err), Message: err.Error()})
			continue
		}
		results = append(results, res)
	}
	return results, failures
}

// Prepare resolves the base prefix and suffix pools of r.
func Prepare(r Recipe, c *affix.Catalog, costs ActionCosts, opts Options) (Input, error) {
	res := opts.Resolver
	if res == nil {
		res = affix.Direct
	}
	pre, err := res.Resolve(c, affix.Query{ItemType: r.ItemType, ItemLevel: r.ItemLevel, ModType: affix.Prefix})
	if err != nil {
		return Input{}, err
	}
	suf, err := res.Resolve(c, affix.Query{ItemType: r.ItemType, ItemLevel: r.ItemLevel, ModType: affix.Suffix})
	if err != nil {
		return Input{}, err
	}
	return Input{
		Recipe:            r,
		Prefix:            pre,
		Suffix:            suf,
		Costs:             costs,
		RerollPrefixSlots: opts.RerollPrefixSlots,
		RerollSuffixSlots: opts.RerollSuffixSlots,
	}, nil
}
