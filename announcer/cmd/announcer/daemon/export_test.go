package daemon

var GetRunOptionsFromFlags = getRunOptionsFromFlags
