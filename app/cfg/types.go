package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	LocalitiesDir     string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string
	MaxSourcesPerRun  int
	MaxItemsPerSource int
	RequestsPerSecond float64

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
