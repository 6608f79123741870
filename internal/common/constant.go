package common

// DefaultContentType is recorded for files whose type cannot be determined.
const DefaultContentType = "application/octet-stream"

// AddressPlaceholder replaces ledger addresses in messages shown to users.
const AddressPlaceholder = "[address]"
