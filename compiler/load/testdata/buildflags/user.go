package buildflags

//derive:builder
type User struct {
	Name string
}
