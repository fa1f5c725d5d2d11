package model

// Origin is the identity context an action executes under.
// Authentication happens before an Origin is built; Signer is trusted as is.
type Origin struct {
	Root   bool
	Signer AccountID
}

func RootOrigin() Origin {
	return Origin{Root: true}
}

func SignedOrigin(acc AccountID) Origin {
	return Origin{Signer: acc}
}

func NoneOrigin() Origin {
	return Origin{}
}

func (o Origin) IsSigned() bool {
	return !o.Root && o.Signer != ""
}
