// Package aspectratio provides the aspect-ratio arithmetic used by the
// generation pipeline: parsing and reducing integer ratios, and resolving an
// arbitrary caller-requested ratio onto the fixed set of ratios an image
// backend can actually generate.
//
// Backends only render a handful of native ratios (for example 1:1, 3:4,
// 4:3, 9:16, 16:9). A caller asking for 2:7 gets the closest native ratio
// plus a crop downstream. Resolve chooses the native ratio whose decimal
// value is nearest the target, which is exactly the choice that minimizes
// the fraction of generated pixels the crop discards.
//
//	res, err := aspectratio.Resolve(target, backend.SupportedRatios())
//	if err != nil { ... }
//	if !res.ExactMatch() {
//	    // crop from res.Source down to target after generation
//	}
package aspectratio
