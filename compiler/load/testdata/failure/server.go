package failure

import "example.com/missing/config"

//derive:builder
type Server struct {
	Addr   string
	Config *config.Options
}
