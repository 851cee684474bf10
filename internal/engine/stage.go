package engine

// stage.go assigns each transformer to the pre-validation or post-validation
// stage.
//
// The default assignment is a fixed enumeration, not a heuristic: adding a
// new transformer kind requires an explicit entry here. Shape-normalizing
// transforms default to pre so coercion and validators see a canonical form;
// presentation and enrichment transforms default to post so they cannot
// influence whether raw input passes validation.

import "github.com/rowforge/rowforge/internal/schema"

// defaultStage is the static stage table for every transformer kind.
func defaultStage(t schema.Transformer) schema.Stage {
	switch t.(type) {
	case schema.Trim,
		schema.Uppercase,
		schema.Lowercase,
		schema.RemoveSpecialChars,
		schema.NormalizePhone,
		schema.NormalizeDate:
		return schema.StagePre
	case schema.Capitalize,
		schema.Default,
		schema.Replace,
		schema.Custom:
		return schema.StagePost
	}
	return schema.StagePost
}

// resolveStage returns the stage a transformer runs in, honoring an explicit
// override on the rule.
func resolveStage(t schema.Transformer) schema.Stage {
	if o := schema.StageOverride(t); o != schema.StageDefault {
		return o
	}
	return defaultStage(t)
}

// partitionTransforms splits a column's transformers into the pre and post
// sublists, preserving declared relative order within each stage.
func partitionTransforms(ts []schema.Transformer) (pre, post []schema.Transformer) {
	for _, t := range ts {
		if resolveStage(t) == schema.StagePre {
			pre = append(pre, t)
		} else {
			post = append(post, t)
		}
	}
	return pre, post
}
