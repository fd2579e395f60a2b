// Package transform holds the tree-rewriting passes run over decoded IR.
//
// SwitchRestorer undoes the lowering some front ends apply to a switch on a
// non-integral key (string, symbolic enum). The lowered form is:
//
//	if (key == null) goto IL_default;                        // guard
//	if (<cache> == null) {                                   // initializer
//	    var dict = new Dictionary(3);
//	    dict.Add("a", 0); dict.Add("b", 1); dict.Add("c", 2);
//	    <cache> = dict;
//	}
//	if (!<cache>.TryResolve(key, out num)) goto IL_default;  // lookup
//	switch (num) { case 0: ... case 1: ... case 2: ... default: goto IL_default; }
//	IL_default: ...
//
// and the restored form is a switch on key whose case values are the keys
// registered with Add, with the IL_default run moved into the default case.
//
// One SwitchRestorer instance handles one function body. The guard,
// initializer and lookup statements always precede the switch they feed,
// so a single pre-order walk records them before the switch is reached.
package transform
