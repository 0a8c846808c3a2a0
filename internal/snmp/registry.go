package snmp

// CollectorRegistry maps api_name onto the Collector that implements it.
// Built once at startup from the fixed collector set below; unlike the
// parser registry this has no device-type dimension, since a Collector
// handles its own vendor branching internally.
type CollectorRegistry struct {
	collectors map[string]Collector
}

func NewCollectorRegistry() *CollectorRegistry {
	r := &CollectorRegistry{collectors: make(map[string]Collector)}
	for _, c := range []Collector{
		FanCollector{},
		PowerCollector{},
		MacTableCollector{},
		PortChannelCollector{},
		InterfaceStatusCollector{},
		NeighborCollector{},
		TransceiverCollector{},
		VersionCollector{},
		ErrorCountCollector{},
	} {
		r.collectors[c.APIName()] = c
	}
	return r
}

func (r *CollectorRegistry) Get(apiName string) (Collector, bool) {
	c, ok := r.collectors[apiName]
	return c, ok
}
