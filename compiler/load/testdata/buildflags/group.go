//go:build !hidegroups

package buildflags

//derive:builder
type Group struct {
	Name    string
	Members []string `builder:"each=member"`
}
