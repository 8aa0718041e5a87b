// Package analysis compares sweep results with the exact solution of the
// square-lattice Ising model (J = k_B = 1).
//
//   - [CriticalTemperature]: Onsager's T_c = 2 / ln(1 + √2)
//   - [ExactMagnetization]: spontaneous magnetization per spin below T_c
//   - [EstimateTc]: locates the heat capacity peak of a sweep
//   - [CompareMagnetization]: measured |M| per spin against the exact curve
//
// # Example
//
//	tc, err := analysis.EstimateTc(records)
//	if err == nil {
//	    fmt.Printf("T_c ~ %.3f (exact %.3f)\n", tc, analysis.CriticalTemperature)
//	}
package analysis
