package source

// RegisterDefaults registers the engine's four built-in source-family
// actors on QuadPatternBus: in-memory, hypermedia, local file, and
// remote SPARQL endpoint. Call it once during engine wiring, before
// any query is evaluated (spec.md §4.5; bus registration is frozen by
// the first Publish, per bus.Bus.Register).
func RegisterDefaults(cache *DerefCache) {
	QuadPatternBus.Register(MemoryActor{})
	QuadPatternBus.Register(HypermediaActor{Cache: cache})
	QuadPatternBus.Register(FileActor{})
	QuadPatternBus.Register(SPARQLRemoteActor{})
}
