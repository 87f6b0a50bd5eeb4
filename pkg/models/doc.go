// Package models provides the model registry used by the routing engine.
//
// A Registry is an immutable catalog of ModelDescriptor values. It is built
// once (at startup or on catalog reload) and only read afterwards, so it can
// be shared across goroutines without locking.
//
// Example:
//
//	registry, err := models.NewRegistry(models.DefaultModels())
//	if err != nil {
//	    return err
//	}
//
//	if m, ok := registry.Get("gpt-4-turbo"); ok {
//	    fmt.Println(m.Name, m.CostPer1KInput)
//	}
package models
