package ops

import "context"

// scaleKernel multiplies every element by a scalar. Elementwise with no
// reduction, so the result is order-independent however the loop is
// scheduled; the operator registers as AlwaysDeterministic.
//
// Args: "values" []float64, "factor" float64. Returns []float64.
func scaleKernel(ctx context.Context, args map[string]any) (any, error) {
	values, err := floatSlice(args, "values")
	if err != nil {
		return nil, err
	}
	factor, err := scalar(args, "factor")
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * factor
	}
	return out, nil
}
