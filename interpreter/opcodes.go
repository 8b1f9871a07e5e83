package interpreter

// Root-frame opcodes, consumed only by ReadRoot (spec.md §4.5, "Root-frame
// opcodes (entered from readRoot)").
const (
	opRootNamespaceA = 0x12
	opRootNamespaceB = 0x03
	opRootClass      = 0x0B
	opRootBegin      = 0x17
)

// Node-frame opcodes (spec.md §4.5, "Node-frame opcodes"). Several numeric
// values are intentionally shared with the root frame (0x12/0x17 double as
// the "nested root" trigger; 0x0B doubles as inline x:Class) — the opcode's
// meaning is frame- and, for 0x04, stack-context-dependent, per spec.md §9's
// design note.
const (
	opUnknownPrologue        = 0x01
	opContextDependent       = 0x04
	opSetProperty            = 0x07
	opSetPropertyExt         = 0x20
	opAddObject              = 0x08
	opAddKeylessStyle        = 0x09
	opAddKeyedObject         = 0x0A
	opClassInline            = 0x0B
	opConnection             = 0x0C
	opName                   = 0x0D
	opUid                    = 0x0E
	opSectionRef             = 0x0F
	opDataTemplate           = 0x11
	opCollectionBegin        = 0x13
	opCollectionEnd          = 0x02
	opObjectBegin            = 0x14
	opObjectEnd              = 0x21
	opObjectEndReturn        = 0x28
	opLiteralFramework       = 0x15
	opLiteralNonFramework    = 0x16
	opNestedRootA            = 0x17
	opNestedRootB            = 0x12
	opCreateWithArgA         = 0x18
	opCreateWithArgB         = 0x19
	opPropertyA              = 0x1A
	opPropertyB              = 0x1B
	opResolvedPropertySetter = 0x1C
	opStyleTargetType        = 0x1D
	opStaticResourceProperty = 0x1E
	opStaticResourceObject   = 0x22
	opThemeResourceObject    = 0x23
	opThemeResourceProperty  = 0x24
	opTemplateBinding        = 0x1F
	opConditionalBegin       = 0x26
	opConditionalEnd         = 0x27
	opLegacyPop              = 0x8B
)

// Node-section reference kinds (spec.md §4.5.2). kind is read as a varint,
// not a single byte, which is why sectionKindResourceDictExt (371) and
// sectionKindDeferredElementAlt (746) are reachable at all.
const (
	sectionKindStyle              = 2
	sectionKindStyleAlt           = 8
	sectionKindStyleExtended      = 11
	sectionKindResourceDict       = 7
	sectionKindResourceDictExt    = 371
	sectionKindResourceDictExt2   = 10
	sectionKindVisualStates       = 5
	sectionKindDeferredElement    = 6
	sectionKindDeferredElementAlt = 746
	sectionKindDeferredElementExt = 9
)

// Style setter-type bytes (spec.md §4.5.4).
const (
	setterStringProperty        = 0x01
	setterStringPropertyAlt     = 0x02
	setterTableProperty         = 0x11
	setterTablePropertyAlt      = 0x12
	setterObjectOffset          = 0x08
	setterObjectOffsetAlt       = 0x18
	setterInlineValue           = 0x20
	setterInlineValueAlt        = 0x30
	setterReadySetter           = 0x40
	setterReadySetterAlt        = 0x50
	setterReadySetterPrefixed   = 0xC0
	setterReadySetterPrefixedB  = 0xD0
)
