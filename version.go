package seahash

// Version is the library version. Release builds override it with
// -ldflags "-X github.com/hupe1980/seahash.Version=v1.2.3".
var Version = "0.1.0"
