package common

// Version of zcrpc, reported by the info service and the CLI
const Version = "0.4.1"
