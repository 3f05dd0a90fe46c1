package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool", "kind"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls not found",
		RequiredTags: []string{"tool"},
	}

	StatsUpstreamRequests = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_upstream_requests",
		Help:         "stats_upstream_requests provides total requests sent to upstream services",
		RequiredTags: []string{"upstream"},
	}

	StatsUpstreamFailures = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_upstream_failures",
		Help:         "stats_upstream_failures provides total failed upstream requests",
		RequiredTags: []string{"upstream", "kind"},
	}

	StatsUpstreamBytesReceived = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_upstream_bytes_received",
		Help:         "stats_upstream_bytes_received provides total bytes received from upstream services",
		RequiredTags: []string{"upstream"},
	}

	StatsHeadlinesDropped = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_headlines_dropped",
		Help:         "stats_headlines_dropped provides total feed items dropped for missing title or link",
		RequiredTags: []string{"source"},
	}
)

// Perf
var (
	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}

	PerfUpstreamRequest = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_upstream_request",
		Help:         "perf_upstream_request provides duration of upstream request",
		RequiredTags: []string{"upstream"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfToolCall,
	&PerfUpstreamRequest,
	&StatsHeadlinesDropped,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
	&StatsUpstreamBytesReceived,
	&StatsUpstreamFailures,
	&StatsUpstreamRequests,
}
