package repository

// Option applies a configuration option to a Source.
type Option func(*options)

type options struct {
	table string
}

func defaultOptions() options {
	return options{table: "results"}
}

// WithTable sets the SQLite table the results are read from.
func WithTable(table string) Option {
	return func(o *options) {
		if table != "" {
			o.table = table
		}
	}
}
