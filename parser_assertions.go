package artengine

var (
	_ Parser = (*AnsiParser)(nil)
	_ Parser = (*AvatarParser)(nil)
	_ Parser = (*PetsciiParser)(nil)
	_ Parser = (*ViewdataParser)(nil)
	_ Parser = (*AtasciiParser)(nil)
	_ Parser = (*AsciiParser)(nil)
	_ Parser = (*PcboardParser)(nil)
)
