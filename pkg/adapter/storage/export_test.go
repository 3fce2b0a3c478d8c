package storage

var StatusOptions = statusOptions
