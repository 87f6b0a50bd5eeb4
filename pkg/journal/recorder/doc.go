// Package recorder writes routing decisions to the journal asynchronously.
//
// The Recorder satisfies routing.DecisionRecorder, so a routing service
// journals every decision it makes once it is given the recorder:
//
//	rec := recorder.New(store, cfg.Journal.Recorder, recorder.WithMetrics(collector))
//	defer rec.Close()
//	svc := routing.NewService(provider, routing.WithJournal(rec))
//
// Only the decision summary is stored. Query text, keywords and file names
// never reach storage.
package recorder
