package runner

// harnessJS is a minimal testharness.js: test() runs a function, records
// PASS or FAIL through _report_result and never throws.
const harnessJS = `
function test(func, name) {
    try {
        func();
        _report_result(name || '', 0, null);
    } catch (e) {
        _report_result(name || '', 1, (e && e.message) || String(e));
    }
}

function _fail(description, message) {
    throw new Error((description ? description + ': ' : '') + message);
}

function assert_true(actual, description) {
    if (actual !== true) _fail(description, 'expected true but got ' + actual);
}

function assert_false(actual, description) {
    if (actual !== false) _fail(description, 'expected false but got ' + actual);
}

function assert_equals(actual, expected, description) {
    if (actual !== expected) {
        _fail(description, 'expected ' + JSON.stringify(expected) + ' but got ' + JSON.stringify(actual));
    }
}

function assert_not_equals(actual, expected, description) {
    if (actual === expected) _fail(description, 'expected not ' + JSON.stringify(expected));
}

function assert_array_equals(actual, expected, description) {
    if (actual.length !== expected.length) {
        _fail(description, 'lengths differ: ' + actual.length + ' vs ' + expected.length);
    }
    for (var i = 0; i < actual.length; i++) {
        if (actual[i] !== expected[i]) {
            _fail(description, 'arrays differ at index ' + i + ': ' +
                JSON.stringify(actual[i]) + ' vs ' + JSON.stringify(expected[i]));
        }
    }
}

function assert_throws_dom(type, func, description) {
    var thrown = null;
    try {
        func();
    } catch (e) {
        thrown = e;
    }
    if (thrown === null) _fail(description, 'expected DOMException ' + type);
    if (thrown.name !== type && thrown.code !== type) {
        _fail(description, 'expected DOMException ' + type + ' but got ' + thrown.name);
    }
}

function assert_throws_js(constructor, func, description) {
    var thrown = null;
    try {
        func();
    } catch (e) {
        thrown = e;
    }
    if (thrown === null) _fail(description, 'expected exception ' + constructor.name);
    if (!(thrown instanceof constructor)) {
        _fail(description, 'expected ' + constructor.name + ' but got ' + thrown.name);
    }
}

function assert_unreached(description) {
    _fail(description, 'should not be reached');
}
`
