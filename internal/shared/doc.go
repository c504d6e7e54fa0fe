// Package shared holds helpers used by more than one layer of the delivery dashboard.
//
// The testutil subpackage provides log capture for asserting on slog output and
// delivery extract fixtures (raw CSV text, cleaned records) shared by the
// dataprocessing, services and transport tests:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteExtract(t, testutil.SampleExtractRows()...)
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "dataset loaded")
//	}
//
// Nothing in this package may import business packages other than the domain contracts.
package shared
