package split

type Jobs struct{}

func (j *Jobs) Run() { // want `method Jobs.Run would be instrumented as plain span "spanweave.Jobs.Run"`
}
